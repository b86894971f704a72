package content

import (
	"errors"
	"fmt"

	"github.com/annel0/fuelcell/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrAssetMissing возвращается, когда меш, текстура или шрифт не найдены.
// Ошибка фатальна для запуска сессии и не восстанавливается.
var ErrAssetMissing = errors.New("asset missing")

// Part соответствует одной части под-меша (один буфер вершин)
type Part struct {
	Vertices []mgl32.Vec3
}

// SubMesh представляет под-меш с опорной сферой
type SubMesh struct {
	Parts  []Part
	Sphere physics.BoundingSphere
}

// Mesh представляет геометрию, загруженную коллаборатором контента
type Mesh struct {
	Name      string
	SubMeshes []SubMesh
}

// Texture ссылка на текстуру. Сами данные принадлежат рендеру.
type Texture struct {
	Name string
}

// NewMesh собирает меш из наборов вершин: каждый набор становится под-мешем
// из одной части, сфера считается по вершинам.
func NewMesh(name string, vertexSets ...[]mgl32.Vec3) *Mesh {
	m := &Mesh{Name: name}
	for _, vertices := range vertexSets {
		m.SubMeshes = append(m.SubMeshes, SubMesh{
			Parts:  []Part{{Vertices: vertices}},
			Sphere: physics.SphereFromPoints(vertices),
		})
	}
	return m
}

// Validate проверяет, что у меша есть первый под-меш с первой непустой частью
func (m *Mesh) Validate() error {
	if m == nil {
		return fmt.Errorf("nil mesh: %w", ErrAssetMissing)
	}
	if len(m.SubMeshes) == 0 || len(m.SubMeshes[0].Parts) == 0 || len(m.SubMeshes[0].Parts[0].Vertices) == 0 {
		return fmt.Errorf("mesh %q has no geometry: %w", m.Name, ErrAssetMissing)
	}
	return nil
}

// FirstSphere возвращает опорную сферу первого под-меша
func (m *Mesh) FirstSphere() physics.BoundingSphere {
	if len(m.SubMeshes) == 0 {
		return physics.BoundingSphere{}
	}
	return m.SubMeshes[0].Sphere
}

// FirstPartBounds возвращает AABB вершин первой части первого под-меша
func (m *Mesh) FirstPartBounds() physics.BoundingBox {
	if len(m.SubMeshes) == 0 || len(m.SubMeshes[0].Parts) == 0 {
		return physics.BoundingBox{}
	}
	return physics.BoxFromPoints(m.SubMeshes[0].Parts[0].Vertices)
}
