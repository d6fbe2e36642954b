package renderer

import (
	"fmt"

	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
)

// Material holds the four fixed-function color channels. Only diffuse
// is populated from source data; the rest keep the hardware defaults.
// Immutable once a mesh is built.
type Material struct {
	Ambient  math.Vec4
	Diffuse  math.Vec4
	Specular math.Vec4
	Emission math.Vec4
}

func DefaultMaterial() Material {
	return Material{
		Ambient:  math.Vec4{X: 0.2, Y: 0.2, Z: 0.2, W: 0.0},
		Diffuse:  math.Vec4{X: 0.4, Y: 0.4, Z: 0.4, W: 0.0},
		Specular: math.Vec4{X: 0.8, Y: 0.8, Z: 0.8, W: 0.0},
		Emission: math.Vec4{X: 0.0, Y: 0.0, Z: 0.0, W: 1.0},
	}
}

func MaterialWithDiffuse(diffuse math.Vec4) Material {
	m := DefaultMaterial()
	m.Diffuse = diffuse
	return m
}

// MeshAsset owns one material, one block of fixed vertex storage, an
// optional index list and an optional resident texture. An asset is
// built once and afterwards owned exclusively by the Registry for the
// life of the process; it is never mutated.
type MeshAsset struct {
	Material Material

	vbo     VertexBuffer
	indices []uint16
	texture Texture
}

// NewMeshAsset builds the hardware-side resources for one mesh. The
// vertex storage and its descriptor are created exactly here and are
// reused every frame; container may be empty for an untextured mesh.
func NewMeshAsset(b Backend, vertices []mesh.Vertex, indices []uint16, container []byte, material Material) (*MeshAsset, error) {
	if len(vertices) > mesh.MaxVertices {
		return nil, fmt.Errorf("%w: %d vertices cannot be indexed by u16", core.ErrFormat, len(vertices))
	}

	vbo, err := b.CreateVertexBuffer(vertices)
	if err != nil {
		return nil, err
	}

	var texture Texture
	if len(container) > 0 {
		texture, err = b.ImportTexture(container, FilterLinear, FilterNearest)
		if err != nil {
			b.DestroyVertexBuffer(vbo)
			return nil, err
		}
	}

	asset := &MeshAsset{
		Material: material,
		vbo:      vbo,
		texture:  texture,
	}
	if len(indices) > 0 {
		asset.indices = append([]uint16(nil), indices...)
	}
	return asset, nil
}

func (a *MeshAsset) HasTexture() bool {
	return a.texture != nil
}

func (a *MeshAsset) Indexed() bool {
	return len(a.indices) > 0
}

// VertexCount reports the size of the asset's vertex storage.
func (a *MeshAsset) VertexCount() int {
	return a.vbo.Len()
}

// destroy releases the hardware resources. The registry calls this
// exactly once, at shutdown.
func (a *MeshAsset) destroy(b Backend) {
	if a.texture != nil {
		b.DestroyTexture(a.texture)
		a.texture = nil
	}
	if a.vbo != nil {
		b.DestroyVertexBuffer(a.vbo)
		a.vbo = nil
	}
}
