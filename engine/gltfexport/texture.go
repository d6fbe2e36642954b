package gltfexport

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	// Decoders for the image formats glTF allows.
	_ "image/jpeg"

	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	xdraw "golang.org/x/image/draw"

	"github.com/micycle8778/mm3ds/engine/core"
)

// The hardware cannot sample textures wider or taller than this; the
// compressor input is scaled down to fit.
const maxTextureDim = 1024

// textureConverter turns glTF textures into compressed containers by
// round-tripping them through the external compressor. Conversions are
// cached per texture index, so a texture shared by several primitives
// is compressed once.
type textureConverter struct {
	doc        *gltf.Document
	baseDir    string
	compressor string
	cache      map[uint32][]byte
}

func newTextureConverter(doc *gltf.Document, baseDir, compressor string) *textureConverter {
	return &textureConverter{
		doc:        doc,
		baseDir:    baseDir,
		compressor: compressor,
		cache:      make(map[uint32][]byte),
	}
}

func (c *textureConverter) convert(texIndex uint32) ([]byte, error) {
	if container, ok := c.cache[texIndex]; ok {
		return container, nil
	}
	if int(texIndex) >= len(c.doc.Textures) {
		return nil, fmt.Errorf("missing texture %d", texIndex)
	}
	tex := c.doc.Textures[texIndex]
	if tex.Source == nil || int(*tex.Source) >= len(c.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image source", texIndex)
	}

	raw, err := c.imageBytes(c.doc.Images[*tex.Source])
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image for texture %d: %w", texIndex, err)
	}

	container, err := c.compress(clampSize(img))
	if err != nil {
		return nil, err
	}
	c.cache[texIndex] = container
	return container, nil
}

// imageBytes fetches an image's raw bytes from its buffer view, a data
// URI or a file next to the document.
func (c *textureConverter) imageBytes(img *gltf.Image) ([]byte, error) {
	if img.BufferView != nil {
		if int(*img.BufferView) >= len(c.doc.BufferViews) {
			return nil, fmt.Errorf("image references missing buffer view %d", *img.BufferView)
		}
		return modeler.ReadBufferView(c.doc, c.doc.BufferViews[*img.BufferView])
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image has neither a buffer view nor a URI")
	}
	if strings.HasPrefix(img.URI, "data:") {
		_, data, ok := strings.Cut(img.URI, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI")
		}
		return base64.StdEncoding.DecodeString(data)
	}

	data, err := os.ReadFile(filepath.Join(c.baseDir, img.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	return data, nil
}

// clampSize scales an image down to the hardware's maximum texture
// size, preserving aspect ratio. Images already in range pass through.
func clampSize(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxTextureDim && h <= maxTextureDim {
		return img
	}

	scale := float64(maxTextureDim) / float64(w)
	if h > w {
		scale = float64(maxTextureDim) / float64(h)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	core.LogWarn("texture is %dx%d, scaling down to %dx%d", w, h, nw, nh)

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// compress writes the image to a scratch PNG, runs the compressor on
// it and reads back the container. Scratch files are removed on every
// path.
func (c *textureConverter) compress(img image.Image) ([]byte, error) {
	id := uuid.NewString()
	pngPath := filepath.Join(os.TempDir(), "mm3ds-"+id+".png")
	t3xPath := filepath.Join(os.TempDir(), "mm3ds-"+id+".t3x")
	defer os.Remove(pngPath)
	defer os.Remove(t3xPath)

	f, err := os.Create(pngPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIO, err)
	}

	cmd := exec.Command(c.compressor, "-f", "auto-etc1", "-z", "auto", "-o", t3xPath, pngPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	core.LogDebug("running %s", strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", core.ErrExternalTool, c.compressor, err,
			strings.TrimSpace(stderr.String()))
	}

	container, err := os.ReadFile(t3xPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	return container, nil
}
