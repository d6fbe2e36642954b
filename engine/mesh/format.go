package mesh

import (
	"github.com/micycle8778/mm3ds/engine/math"
)

// Vertex is one interleaved vertex record exactly as it appears on the
// wire: position, texture coordinate, normal. 32 bytes of
// little-endian f32, in this field order.
type Vertex struct {
	Position math.Vec3
	UV       math.Vec2
	Normal   math.Vec3
}

// VertexSize is the wire size of one Vertex record.
const VertexSize = 32

// MaxVertices is the largest vertex count one record may carry;
// indices are 16-bit.
const MaxVertices = 1 << 16

// Record is one decoded mesh record: the material diffuse color, the
// vertex data, an optional index list and an optional opaque
// compressed-texture container produced by the external compressor.
type Record struct {
	Diffuse  math.Vec4
	Vertices []Vertex
	Indices  []uint16
	Texture  []byte
}
