package content

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Имена ассетов, которые ожидает мир
const (
	MeshCube   = "Shapes/cube10uR"
	MeshStar   = "Shapes/star"
	MeshGoomba = "Shapes/Goomba"
	MeshCastle = "Shapes/castle"
	MeshSign   = "Shapes/sign"
	MeshSkybox = "Shapes/skybox"
	MeshFloor  = "Shapes/floor"
	MeshPlayer = "Shapes/player"

	TextureFloor = "Skins/marioFloor"
	TextureBox   = "Skins/marioBox"
	TextureStar  = "Skins/star"
)

// Catalog разрешает имена ассетов в меши и текстуры
type Catalog interface {
	Mesh(name string) (*Mesh, error)
	Texture(name string) (Texture, error)
}

// MemoryCatalog хранит ассеты в памяти
type MemoryCatalog struct {
	mu       sync.RWMutex
	meshes   map[string]*Mesh
	textures map[string]Texture
}

// NewMemoryCatalog создаёт пустой каталог
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		meshes:   make(map[string]*Mesh),
		textures: make(map[string]Texture),
	}
}

// AddMesh регистрирует меш под его именем
func (c *MemoryCatalog) AddMesh(m *Mesh) {
	c.mu.Lock()
	c.meshes[m.Name] = m
	c.mu.Unlock()
}

// AddTexture регистрирует текстуру
func (c *MemoryCatalog) AddTexture(name string) {
	c.mu.Lock()
	c.textures[name] = Texture{Name: name}
	c.mu.Unlock()
}

// Mesh возвращает меш или ErrAssetMissing
func (c *MemoryCatalog) Mesh(name string) (*Mesh, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.meshes[name]
	if !ok {
		return nil, fmt.Errorf("mesh %q: %w", name, ErrAssetMissing)
	}
	return m, nil
}

// Texture возвращает текстуру или ErrAssetMissing
func (c *MemoryCatalog) Texture(name string) (Texture, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tex, ok := c.textures[name]
	if !ok {
		return Texture{}, fmt.Errorf("texture %q: %w", name, ErrAssetMissing)
	}
	return tex, nil
}

// NewBuiltinCatalog возвращает каталог с процедурной геометрией для
// безголового запуска: куб 10x10x10, звезда, гумба, замок, табличка и пол.
func NewBuiltinCatalog() *MemoryCatalog {
	c := NewMemoryCatalog()

	c.AddMesh(NewMesh(MeshCube, boxVertices(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 10, 10})))
	// Мешы звезды и гумбы в исходных единицах модели: их масштабирует сущность
	c.AddMesh(NewMesh(MeshStar, starVertices(120, 40)))
	c.AddMesh(NewMesh(MeshGoomba, boxVertices(mgl32.Vec3{-900, 0, -900}, mgl32.Vec3{900, 1600, 900})))
	c.AddMesh(NewMesh(MeshCastle, boxVertices(mgl32.Vec3{-150, 0, -150}, mgl32.Vec3{150, 220, 150})))
	c.AddMesh(NewMesh(MeshSign, boxVertices(mgl32.Vec3{-12, 0, -1}, mgl32.Vec3{12, 18, 1})))
	c.AddMesh(NewMesh(MeshSkybox, boxVertices(mgl32.Vec3{-500, -500, -500}, mgl32.Vec3{500, 500, 500})))
	c.AddMesh(NewMesh(MeshFloor, PlaneVertices(FloorTilesX, FloorTilesZ, FloorTileSize)))
	c.AddMesh(NewMesh(MeshPlayer, boxVertices(mgl32.Vec3{-2, 0, -2}, mgl32.Vec3{2, 6, 2})))

	c.AddTexture(TextureFloor)
	c.AddTexture(TextureBox)
	c.AddTexture(TextureStar)

	return c
}

// Параметры пола: 72x300 плиток по 15 единиц
const (
	FloorTilesX   = 72
	FloorTilesZ   = 300
	FloorTileSize = 15
)

// PlaneVertices строит плоскость из width x depth плиток по два треугольника
func PlaneVertices(width, depth int, tile float32) []mgl32.Vec3 {
	quad := [6]mgl32.Vec3{
		{0, 0, 0}, {tile, 0, tile}, {0, 0, tile},
		{tile, 0, 0}, {tile, 0, tile}, {0, 0, 0},
	}

	vertices := make([]mgl32.Vec3, 0, width*depth*len(quad))
	for row := 0; row < depth; row++ {
		for column := 0; column < width; column++ {
			offset := mgl32.Vec3{float32(column) * tile, 0, float32(row) * tile}
			for _, v := range quad {
				vertices = append(vertices, v.Add(offset))
			}
		}
	}
	return vertices
}

func boxVertices(min, max mgl32.Vec3) []mgl32.Vec3 {
	vertices := make([]mgl32.Vec3, 0, 8)
	for _, x := range []float32{min.X(), max.X()} {
		for _, y := range []float32{min.Y(), max.Y()} {
			for _, z := range []float32{min.Z(), max.Z()} {
				vertices = append(vertices, mgl32.Vec3{x, y, z})
			}
		}
	}
	return vertices
}

// starVertices пятиконечная звезда в плоскости XY толщиной depth
func starVertices(radius, depth float32) []mgl32.Vec3 {
	vertices := make([]mgl32.Vec3, 0, 20)
	for i := 0; i < 10; i++ {
		r := radius
		if i%2 == 1 {
			r = radius * 0.45
		}
		angle := float64(i) * math.Pi / 5
		x, y := float32(math.Sin(angle))*r, float32(math.Cos(angle))*r
		vertices = append(vertices, mgl32.Vec3{x, y, -depth / 2}, mgl32.Vec3{x, y, depth / 2})
	}
	return vertices
}
