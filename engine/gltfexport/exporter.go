package gltfexport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/micycle8778/mm3ds/engine/core"
	"github.com/micycle8778/mm3ds/engine/math"
	"github.com/micycle8778/mm3ds/engine/mesh"
)

// Options controls one export run.
type Options struct {
	// Compressor is the external texture compressor executable.
	Compressor string
	// OnRecord, when set, is called after each mesh record is built.
	OnRecord func(index int)
}

// Export converts a glTF file into a binary mesh file at outPath. The
// output is written through a temporary file in the destination
// directory and renamed into place, so a failed export never leaves a
// partial file behind.
func Export(docPath, outPath string, opts Options) error {
	doc, err := gltf.Open(docPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", docPath, err)
	}

	records, err := BuildRecords(doc, filepath.Dir(docPath), opts)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".mesh-*")
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	if err := mesh.Encode(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", core.ErrIO, err)
	}

	core.LogInfo("exported %d meshes to %s", len(records), outPath)
	return nil
}

// BuildRecords walks the document's scene graph and converts every
// triangle primitive into a mesh record with its transform baked in.
// Records come out in traversal order: scene roots in declaration
// order, each node's children before its own primitives.
func BuildRecords(doc *gltf.Document, baseDir string, opts Options) ([]mesh.Record, error) {
	conv := newTextureConverter(doc, baseDir, opts.Compressor)

	var records []mesh.Record
	for _, root := range sceneRoots(doc) {
		if err := walkNode(doc, root, math.NewIdentity(), &records, conv, &opts); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// sceneRoots picks the default scene's nodes, or computes the parent-
// less nodes when the document declares no scene.
func sceneRoots(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	child := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

func walkNode(doc *gltf.Document, index uint32, parent math.Mat4, records *[]mesh.Record, conv *textureConverter, opts *Options) error {
	if int(index) >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", index)
	}
	node := doc.Nodes[index]
	world := parent.Mul(localTransform(node))

	for _, c := range node.Children {
		if err := walkNode(doc, c, world, records, conv, opts); err != nil {
			return err
		}
	}

	if node.Mesh != nil {
		if int(*node.Mesh) >= len(doc.Meshes) {
			return fmt.Errorf("node %d references missing mesh %d", index, *node.Mesh)
		}
		for _, prim := range doc.Meshes[*node.Mesh].Primitives {
			rec, ok, err := buildPrimitive(doc, prim, world, conv)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			*records = append(*records, rec)
			if opts.OnRecord != nil {
				opts.OnRecord(len(*records) - 1)
			}
		}
	}
	return nil
}

// localTransform evaluates a node's transform, whichever of the two
// encodings the document uses. Parsing fills Matrix in with the
// identity on TRS-only nodes, so the identity defers to the TRS
// properties just like the zero matrix does.
func localTransform(n *gltf.Node) math.Mat4 {
	if n.Matrix != ([16]float32{}) && n.Matrix != gltf.DefaultMatrix {
		// Both layouts are column-major.
		return math.Mat4{Data: n.Matrix}
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return math.NewTranslation(t[0], t[1], t[2]).
		Mul(math.NewQuaternion(r[0], r[1], r[2], r[3])).
		Mul(math.NewScale(s[0], s[1], s[2]))
}

// buildPrimitive converts one triangle primitive. Non-triangle
// primitives are skipped with ok=false.
func buildPrimitive(doc *gltf.Document, prim *gltf.Primitive, world math.Mat4, conv *textureConverter) (mesh.Record, bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		core.LogWarn("skipping primitive with mode %d, only triangles are supported", prim.Mode)
		return mesh.Record{}, false, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return mesh.Record{}, false, fmt.Errorf("primitive is missing the %s attribute", gltf.POSITION)
	}
	uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]
	if !ok {
		return mesh.Record{}, false, fmt.Errorf("primitive is missing the %s attribute", gltf.TEXCOORD_0)
	}
	normIdx, ok := prim.Attributes[gltf.NORMAL]
	if !ok {
		return mesh.Record{}, false, fmt.Errorf("primitive is missing the %s attribute", gltf.NORMAL)
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return mesh.Record{}, false, fmt.Errorf("reading positions: %w", err)
	}
	uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
	if err != nil {
		return mesh.Record{}, false, fmt.Errorf("reading texture coordinates: %w", err)
	}
	normals, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
	if err != nil {
		return mesh.Record{}, false, fmt.Errorf("reading normals: %w", err)
	}
	if len(uvs) != len(positions) || len(normals) != len(positions) {
		return mesh.Record{}, false, fmt.Errorf("attribute counts disagree: %d positions, %d uvs, %d normals",
			len(positions), len(uvs), len(normals))
	}
	if len(positions) > mesh.MaxVertices-1 {
		return mesh.Record{}, false, fmt.Errorf("%w: primitive has %d vertices, limit is %d",
			core.ErrFormat, len(positions), mesh.MaxVertices-1)
	}

	vertices := make([]mesh.Vertex, len(positions))
	for i := range positions {
		p := math.Vec3{X: positions[i][0], Y: positions[i][1], Z: positions[i][2]}
		n := math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
		vertices[i] = mesh.Vertex{
			Position: world.MulPoint(p),
			UV:       math.Vec2{X: uvs[i][0], Y: uvs[i][1]},
			Normal:   world.MulDir(n).Normalized(),
		}
	}

	var indices []uint16
	if prim.Indices != nil {
		wide, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return mesh.Record{}, false, fmt.Errorf("reading indices: %w", err)
		}
		indices = make([]uint16, len(wide))
		for i, idx := range wide {
			if idx > 0xFFFF {
				return mesh.Record{}, false, fmt.Errorf("%w: index %d does not fit in 16 bits", core.ErrFormat, idx)
			}
			indices[i] = uint16(idx)
		}
	}

	rec := mesh.Record{
		Diffuse:  math.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		Vertices: vertices,
		Indices:  indices,
	}
	if prim.Material != nil {
		if err := applyMaterial(doc, *prim.Material, &rec, conv); err != nil {
			return mesh.Record{}, false, err
		}
	}
	return rec, true, nil
}

func applyMaterial(doc *gltf.Document, index uint32, rec *mesh.Record, conv *textureConverter) error {
	if int(index) >= len(doc.Materials) {
		return fmt.Errorf("primitive references missing material %d", index)
	}
	mat := doc.Materials[index]
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return nil
	}

	c := pbr.BaseColorFactorOrDefault()
	rec.Diffuse = math.Vec4{X: c[0], Y: c[1], Z: c[2], W: c[3]}

	if pbr.BaseColorTexture != nil {
		container, err := conv.convert(pbr.BaseColorTexture.Index)
		if err != nil {
			return err
		}
		rec.Texture = container
	}
	return nil
}
