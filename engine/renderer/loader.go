package renderer

import (
	"bytes"
	"fmt"

	"github.com/micycle8778/mm3ds/engine/mesh"
)

// LoadMeshes decodes a binary mesh stream and builds the hardware
// resources for every record, in file order. The returned assets are
// not yet registered; the caller decides whether a failed load is
// fatal or the asset is skipped. On any failure everything built so
// far is released, so a failed load never leaves a partial asset
// resident.
func LoadMeshes(b Backend, data []byte) ([]*MeshAsset, error) {
	records, err := mesh.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	assets := make([]*MeshAsset, 0, len(records))
	for i, rec := range records {
		asset, err := NewMeshAsset(b, rec.Vertices, rec.Indices, rec.Texture, MaterialWithDiffuse(rec.Diffuse))
		if err != nil {
			for _, built := range assets {
				built.destroy(b)
			}
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
