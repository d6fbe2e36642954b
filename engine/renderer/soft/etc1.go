package soft

import (
	"encoding/binary"
	"fmt"

	"github.com/micycle8778/mm3ds/engine/core"
)

// ETC1 intensity modifier tables, indexed by table codeword then by
// the per-pixel 2-bit index.
var etc1Modifiers = [8][4]int{
	{2, 8, -2, -8},
	{5, 17, -5, -17},
	{9, 29, -9, -29},
	{13, 42, -13, -42},
	{18, 60, -18, -60},
	{24, 80, -24, -80},
	{33, 106, -33, -106},
	{47, 183, -47, -183},
}

// decodeETC1 expands ETC1 (or ETC1A4) compressed data to linear RGBA8.
// Blocks are 4×4, grouped four to an 8×8 tile in Z order, tiles in
// raster order, rows stored bottom-up.
func decodeETC1(data []byte, width, height int, alpha bool) ([]byte, error) {
	if width%8 != 0 || height%8 != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not tileable", core.ErrDecode, width, height)
	}
	blockSize := 8
	if alpha {
		blockSize = 16
	}
	numBlocks := (width / 4) * (height / 4)
	if len(data) < numBlocks*blockSize {
		return nil, fmt.Errorf("%w: compressed data shorter than %dx%d", core.ErrDecode, width, height)
	}

	out := make([]byte, width*height*4)
	var block [4 * 4 * 4]byte

	pos := 0
	for tileY := 0; tileY < height; tileY += 8 {
		for tileX := 0; tileX < width; tileX += 8 {
			for sub := 0; sub < 4; sub++ {
				blockX := tileX + (sub&1)*4
				blockY := tileY + (sub>>1)*4

				src := data[pos : pos+blockSize]
				pos += blockSize

				var alphaBits uint64
				if alpha {
					alphaBits = binary.LittleEndian.Uint64(src)
					src = src[8:]
				} else {
					alphaBits = ^uint64(0)
				}
				decodeETC1Block(binary.LittleEndian.Uint64(src), alphaBits, block[:])

				for py := 0; py < 4; py++ {
					y := blockY + py
					for px := 0; px < 4; px++ {
						x := blockX + px
						dst := ((height-1-y)*width + x) * 4
						copy(out[dst:dst+4], block[(py*4+px)*4:])
					}
				}
			}
		}
	}
	return out, nil
}

// decodeETC1Block expands one 4×4 block into dst, row-major RGBA8.
// alphaBits carries one nibble per pixel in the same column-major
// order as the color indices.
func decodeETC1Block(bits, alphaBits uint64, dst []byte) {
	hi := uint32(bits >> 32)
	lo := uint32(bits)

	diff := hi&2 != 0
	flip := hi&1 != 0
	table1 := (hi >> 5) & 0x7
	table2 := (hi >> 2) & 0x7

	var r1, g1, b1, r2, g2, b2 int
	if diff {
		r1 = extend5(int(hi >> 27 & 0x1F))
		g1 = extend5(int(hi >> 19 & 0x1F))
		b1 = extend5(int(hi >> 11 & 0x1F))
		r2 = extend5(int(hi>>27&0x1F) + signed3(int(hi>>24&0x7)))
		g2 = extend5(int(hi>>19&0x1F) + signed3(int(hi>>16&0x7)))
		b2 = extend5(int(hi>>11&0x1F) + signed3(int(hi>>8&0x7)))
	} else {
		r1 = int(hi>>28&0xF) * 0x11
		g1 = int(hi>>20&0xF) * 0x11
		b1 = int(hi>>12&0xF) * 0x11
		r2 = int(hi>>24&0xF) * 0x11
		g2 = int(hi>>16&0xF) * 0x11
		b2 = int(hi>>8&0xF) * 0x11
	}

	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			i := uint(x*4 + y)
			msb := lo >> (16 + i) & 1
			lsb := lo >> i & 1
			idx := msb<<1 | lsb

			// Sub-block split: vertical halves when flip is clear,
			// horizontal halves when set.
			var r, g, b int
			var table uint32
			if (!flip && x < 2) || (flip && y < 2) {
				r, g, b = r1, g1, b1
				table = table1
			} else {
				r, g, b = r2, g2, b2
				table = table2
			}

			mod := etc1Modifiers[table][idx]
			o := (y*4 + x) * 4
			dst[o+0] = clampByte(r + mod)
			dst[o+1] = clampByte(g + mod)
			dst[o+2] = clampByte(b + mod)
			dst[o+3] = byte(alphaBits>>(i*4)&0xF) * 0x11
		}
	}
}

// extend5 widens a 5-bit channel to 8 bits.
func extend5(x int) int {
	x &= 0x1F
	return x<<3 | x>>2
}

// signed3 interprets a 3-bit two's-complement delta.
func signed3(x int) int {
	if x >= 4 {
		return x - 8
	}
	return x
}

func clampByte(x int) byte {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return byte(x)
}
