package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalog_HasWorldAssets(t *testing.T) {
	c := NewBuiltinCatalog()

	for _, name := range []string{MeshCube, MeshStar, MeshGoomba, MeshCastle, MeshSign, MeshSkybox, MeshFloor, MeshPlayer} {
		m, err := c.Mesh(name)
		require.NoError(t, err, "Меш %s должен быть в каталоге", name)
		assert.NoError(t, m.Validate())
	}

	cube, _ := c.Mesh(MeshCube)
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, cube.FirstPartBounds().Size(), "Куб должен иметь размер 10")
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, cube.FirstSphere().Center)
}

func TestCatalog_MissingAsset(t *testing.T) {
	c := NewMemoryCatalog()

	_, err := c.Mesh("Shapes/nope")
	assert.True(t, errors.Is(err, ErrAssetMissing), "Ожидалась ErrAssetMissing, получено %v", err)

	_, err = c.Texture("Skins/nope")
	assert.True(t, errors.Is(err, ErrAssetMissing))
}

func TestMesh_ValidateEmpty(t *testing.T) {
	assert.ErrorIs(t, (&Mesh{Name: "empty"}).Validate(), ErrAssetMissing)

	var nilMesh *Mesh
	assert.ErrorIs(t, nilMesh.Validate(), ErrAssetMissing)
}

func TestPlaneVertices(t *testing.T) {
	vertices := PlaneVertices(2, 3, 15)
	assert.Len(t, vertices, 2*3*6)

	m := NewMesh("plane", vertices)
	assert.Equal(t, mgl32.Vec3{30, 0, 45}, m.FirstPartBounds().Size())
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets.yaml")
	data := `
meshes:
  - name: Shapes/cube10uR
    submeshes:
      - box: {min: [0, 0, 0], max: [4, 4, 4]}
  - name: Shapes/tri
    submeshes:
      - vertices: [[0, 1, 0], [1, 0, 0], [-1, 0, 0]]
textures: [Skins/custom]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := LoadManifest(path, NewBuiltinCatalog())
	require.NoError(t, err)

	cube, err := c.Mesh(MeshCube)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{4, 4, 4}, cube.FirstPartBounds().Size(), "Манифест должен перекрывать встроенный меш")

	tri, err := c.Mesh("Shapes/tri")
	require.NoError(t, err)
	assert.Len(t, tri.SubMeshes[0].Parts[0].Vertices, 3)

	_, err = c.Texture("Skins/custom")
	assert.NoError(t, err)
}

func TestLoadManifest_EmptySubmesh(t *testing.T) {
	_, err := Manifest{Meshes: []MeshSpec{{Name: "bad", SubMeshes: []SubMeshSpec{{}}}}}.Apply(nil)
	assert.Error(t, err)
}
