// Package scene содержит общее позиционное состояние всех объектов мира.
//
// Node хранит позицию, поворот (углы Эйлера по осям, радианы) и масштаб, а
// также матрицу трансформации. Матрица НЕ пересчитывается автоматически:
// после любого SetPosition/SetRotation/SetScale (или прямой правки полей)
// вызывающий обязан вызвать RecomputeTransform до следующей отрисовки или
// проверки, зависящей от матрицы.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Node представляет размещаемый объект сцены
type Node struct {
	position  mgl32.Vec3
	rotation  mgl32.Vec3
	scale     mgl32.Vec3
	transform mgl32.Mat4
}

// NewNode создаёт узел в начале координат с единичным масштабом
func NewNode() Node {
	n := Node{scale: mgl32.Vec3{1, 1, 1}}
	n.RecomputeTransform()
	return n
}

// Position возвращает текущую (сохранённую) позицию
func (n *Node) Position() mgl32.Vec3 { return n.position }

// Rotation возвращает углы поворота по осям X, Y, Z
func (n *Node) Rotation() mgl32.Vec3 { return n.rotation }

// Scale возвращает масштаб по осям
func (n *Node) Scale() mgl32.Vec3 { return n.scale }

// SetPosition сохраняет позицию без пересчёта матрицы
func (n *Node) SetPosition(p mgl32.Vec3) { n.position = p }

// SetRotation сохраняет поворот без пересчёта матрицы
func (n *Node) SetRotation(r mgl32.Vec3) { n.rotation = r }

// SetScale сохраняет масштаб без пересчёта матрицы
func (n *Node) SetScale(s mgl32.Vec3) { n.scale = s }

// Transform возвращает матрицу, посчитанную последним вызовом RecomputeTransform
func (n *Node) Transform() mgl32.Mat4 { return n.transform }

// RecomputeTransform пересчитывает матрицу из позиции, поворота и масштаба.
//
// Порядок применения к вершине: масштаб, поворот X, поворот Y, поворот Z,
// перенос. В столбцовой записи mgl32 это T * Rz * Ry * Rx * S.
func (n *Node) RecomputeTransform() {
	n.transform = Compose(n.position, n.rotation, n.scale)
}

// Compose строит матрицу трансформации в принятом во всей системе порядке
func Compose(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	rx := mgl32.HomogRotate3DX(rotation.X())
	ry := mgl32.HomogRotate3DY(rotation.Y())
	rz := mgl32.HomogRotate3DZ(rotation.Z())
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())

	return t.Mul4(rz).Mul4(ry).Mul4(rx).Mul4(s)
}

