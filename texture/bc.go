// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import (
	"image"
)

// decodeBlockCompressed dispatches the desktop block-compressed formats
// (spec §4.8): 4x4 tiles, with the last partial row/column padded during
// decode and cropped on output.
func decodeBlockCompressed(f Format, width, height int, data []byte) (*image.NRGBA, error) {
	switch f.Name {
	case "DXT1":
		return decodeBCBlocks(width, height, data, 8, decodeBC1Block), nil
	case "DXT3":
		return decodeBCBlocks(width, height, data, 16, decodeBC2Block), nil
	case "DXT5":
		return decodeBCBlocks(width, height, data, 16, decodeBC3Block), nil
	case "BC4":
		return decodeBCBlocks(width, height, data, 8, decodeBC4Block), nil
	case "BC5":
		return decodeBCBlocks(width, height, data, 16, decodeBC5Block), nil
	default:
		return nil, unsupportedErr("texture.decodeBlockCompressed", f.Name)
	}
}

// blockDecoder fills a 4x4 tile's worth of pixels (up to 16 RGBA values)
// from a single compressed block.
type blockDecoder func(block []byte) [16][4]uint8

// decodeBCBlocks tiles width x height into 4x4 blocks, decodes each with
// decode, and writes the valid (non-padding) pixels of each tile into the
// output image.
func decodeBCBlocks(width, height int, data []byte, blockBytes int, decode blockDecoder) *image.NRGBA {
	img := newImage(width, height)
	blocksX := ceilDiv(width, 4)
	blocksY := ceilDiv(height, 4)
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			off := (by*blocksX + bx) * blockBytes
			block := data[off : off+blockBytes]
			pixels := decode(block)
			for ly := 0; ly < 4; ly++ {
				y := by*4 + ly
				if y >= height {
					continue
				}
				for lx := 0; lx < 4; lx++ {
					x := bx*4 + lx
					if x >= width {
						continue
					}
					p := pixels[ly*4+lx]
					setPixel(img, x, y, p[0], p[1], p[2], p[3])
				}
			}
		}
	}
	return img
}

// color565 unpacks a little-endian RGB565 u16 into 8-bit channels.
func color565(v uint16) (r, g, b uint8) {
	return expand5(uint8((v >> 11) & 0x1F)), expand6(uint8((v >> 5) & 0x3F)), expand5(uint8(v & 0x1F))
}

// decodeBC1Block decodes one 8-byte DXT1/BC1 block: two RGB565 endpoints
// plus a 2-bit-per-pixel index into a 4-color (or 3-color+transparent)
// palette, per the standard S3TC layout.
func decodeBC1Block(block []byte) [16][4]uint8 {
	c0 := uint16(block[0]) | uint16(block[1])<<8
	c1 := uint16(block[2]) | uint16(block[3])<<8
	r0, g0, b0 := color565(c0)
	r1, g1, b1 := color565(c1)

	var palette [4][3]uint8
	palette[0] = [3]uint8{r0, g0, b0}
	palette[1] = [3]uint8{r1, g1, b1}
	if c0 > c1 {
		palette[2] = lerp3(palette[0], palette[1], 2, 1)
		palette[3] = lerp3(palette[0], palette[1], 1, 2)
	} else {
		palette[2] = lerp3(palette[0], palette[1], 1, 1)
		palette[3] = [3]uint8{0, 0, 0}
	}
	transparentIndex3 := c0 <= c1

	var out [16][4]uint8
	indices := uint32(block[4]) | uint32(block[5])<<8 | uint32(block[6])<<16 | uint32(block[7])<<24
	for i := 0; i < 16; i++ {
		idx := (indices >> (uint(i) * 2)) & 0x3
		a := uint8(255)
		if transparentIndex3 && idx == 3 {
			a = 0
		}
		c := palette[idx]
		out[i] = [4]uint8{c[0], c[1], c[2], a}
	}
	return out
}

func lerp3(a, b [3]uint8, wa, wb int) [3]uint8 {
	total := wa + wb
	return [3]uint8{
		uint8((int(a[0])*wa + int(b[0])*wb) / total),
		uint8((int(a[1])*wa + int(b[1])*wb) / total),
		uint8((int(a[2])*wa + int(b[2])*wb) / total),
	}
}

// decodeBC2Block decodes one 16-byte DXT3/BC2 block: 8 bytes of plain
// 4-bit-per-pixel alpha (no interpolation) followed by the BC1 color
// block.
func decodeBC2Block(block []byte) [16][4]uint8 {
	color := decodeBC1Block(block[8:])
	var out [16][4]uint8
	for i := 0; i < 16; i++ {
		nibble := block[i/2]
		var a uint8
		if i%2 == 0 {
			a = nibble & 0xF
		} else {
			a = nibble >> 4
		}
		out[i] = [4]uint8{color[i][0], color[i][1], color[i][2], expand4(a)}
	}
	return out
}

// decodeBC3Block decodes one 16-byte DXT5/BC3 block: an 8-byte BC4-style
// alpha block followed by the BC1 color block (alpha bits from BC1 are
// ignored; DXT5 always carries its own interpolated 3-bit alpha index).
func decodeBC3Block(block []byte) [16][4]uint8 {
	alphas := decodeAlphaBlock(block[:8])
	color := decodeBC1Block(block[8:])
	var out [16][4]uint8
	for i := 0; i < 16; i++ {
		out[i] = [4]uint8{color[i][0], color[i][1], color[i][2], alphas[i]}
	}
	return out
}

// decodeAlphaBlock decodes BC4/DXT5-alpha's 8-byte block: two 8-bit
// endpoints plus a 3-bit-per-pixel index into an interpolated 8-value (or
// 6-value+0/255) ramp.
func decodeAlphaBlock(block []byte) [16]uint8 {
	a0, a1 := block[0], block[1]
	var ramp [8]uint8
	ramp[0], ramp[1] = a0, a1
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			ramp[1+i] = uint8((int(a0)*(7-i) + int(a1)*i) / 7)
		}
	} else {
		for i := 1; i <= 4; i++ {
			ramp[1+i] = uint8((int(a0)*(5-i) + int(a1)*i) / 5)
		}
		ramp[6] = 0
		ramp[7] = 255
	}

	bits := uint64(0)
	for i, b := range block[2:8] {
		bits |= uint64(b) << (uint(i) * 8)
	}
	var out [16]uint8
	for i := 0; i < 16; i++ {
		idx := (bits >> (uint(i) * 3)) & 0x7
		out[i] = ramp[idx]
	}
	return out
}

// decodeBC4Block decodes one single-channel (red) 8-byte block into a
// grayscale RGBA tile, alpha opaque.
func decodeBC4Block(block []byte) [16][4]uint8 {
	r := decodeAlphaBlock(block)
	var out [16][4]uint8
	for i := 0; i < 16; i++ {
		out[i] = [4]uint8{r[i], 0, 0, 255}
	}
	return out
}

// decodeBC5Block decodes one two-channel (red+green) 16-byte block, two
// independent BC4-style sub-blocks.
func decodeBC5Block(block []byte) [16][4]uint8 {
	r := decodeAlphaBlock(block[:8])
	g := decodeAlphaBlock(block[8:])
	var out [16][4]uint8
	for i := 0; i < 16; i++ {
		out[i] = [4]uint8{r[i], g[i], 0, 255}
	}
	return out
}
