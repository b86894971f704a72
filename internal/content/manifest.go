package content

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Manifest YAML-описание ассетов. Пример:
//
//	meshes:
//	  - name: Shapes/cube10uR
//	    submeshes:
//	      - box: {min: [0, 0, 0], max: [10, 10, 10]}
//	  - name: Shapes/star
//	    submeshes:
//	      - vertices: [[0, 1, 0], [1, 0, 0], [-1, 0, 0]]
//	textures: [Skins/star]
type Manifest struct {
	Meshes   []MeshSpec `yaml:"meshes"`
	Textures []string   `yaml:"textures"`
}

// MeshSpec описание одного меша
type MeshSpec struct {
	Name      string        `yaml:"name"`
	SubMeshes []SubMeshSpec `yaml:"submeshes"`
}

// SubMeshSpec задаёт под-меш либо списком вершин, либо коробкой
type SubMeshSpec struct {
	Vertices [][3]float32 `yaml:"vertices"`
	Box      *BoxSpec     `yaml:"box"`
}

// BoxSpec коробка по двум углам
type BoxSpec struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// LoadManifest читает YAML-манифест и добавляет его ассеты поверх base.
// Если base == nil, создаётся пустой каталог.
func LoadManifest(path string, base *MemoryCatalog) (*MemoryCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	return manifest.Apply(base)
}

// Apply регистрирует ассеты манифеста в каталоге
func (mf Manifest) Apply(base *MemoryCatalog) (*MemoryCatalog, error) {
	catalog := base
	if catalog == nil {
		catalog = NewMemoryCatalog()
	}

	for _, spec := range mf.Meshes {
		if spec.Name == "" {
			return nil, fmt.Errorf("mesh without name in manifest")
		}

		sets := make([][]mgl32.Vec3, 0, len(spec.SubMeshes))
		for i, sub := range spec.SubMeshes {
			var vertices []mgl32.Vec3
			switch {
			case sub.Box != nil:
				vertices = boxVertices(mgl32.Vec3(sub.Box.Min), mgl32.Vec3(sub.Box.Max))
			case len(sub.Vertices) > 0:
				vertices = make([]mgl32.Vec3, len(sub.Vertices))
				for j, v := range sub.Vertices {
					vertices[j] = mgl32.Vec3(v)
				}
			default:
				return nil, fmt.Errorf("mesh %q submesh %d is empty", spec.Name, i)
			}
			sets = append(sets, vertices)
		}

		mesh := NewMesh(spec.Name, sets...)
		if err := mesh.Validate(); err != nil {
			return nil, err
		}
		catalog.AddMesh(mesh)
	}

	for _, name := range mf.Textures {
		catalog.AddTexture(name)
	}

	return catalog, nil
}
