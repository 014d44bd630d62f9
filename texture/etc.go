// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import (
	"image"
)

// decodeMobile dispatches the Mobile category (spec §4.8). Only ETC1
// ships a decoder here; ETC2/EAC/ASTC/PVRTC/ATC variants are recognized
// by the format table (for sizing and metadata) but return Unsupported
// until a specialist decoder is wired in.
func decodeMobile(f Format, width, height int, data []byte) (*image.NRGBA, error) {
	switch f.Name {
	case "ETC_RGB4":
		return decodeBCBlocks(width, height, data, 8, decodeETC1Block), nil
	default:
		return nil, unsupportedErr("texture.decodeMobile", f.Name)
	}
}

// etc1Modifiers is the per-table-index modifier set applied to a
// subblock's base color; each row holds the four values selected by the
// 2-bit (msb,lsb) pixel code, per the ETC1 specification.
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

func clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// decodeETC1Block decodes one 8-byte ETC1 block into a 4x4 RGBA tile
// (alpha always opaque). Layout: two base colors (individual or
// differential, selected by a diff bit), two 3-bit modifier-table
// indices, a flip bit choosing how the 4x4 tile splits into its two 2x4
// (or 4x2) subblocks, and a 32-bit pixel-index plane (2 bits/pixel,
// column-major numbering).
func decodeETC1Block(block []byte) [16][4]uint8 {
	b0, b1, b2, b3 := block[0], block[1], block[2], block[3]
	flip := b3&0x1 != 0
	diff := b3&0x2 != 0
	table1 := int((b3 >> 5) & 0x7)
	table2 := int((b3 >> 2) & 0x7)

	var r1, g1, b1c, r2, g2, b2c int
	if diff {
		r := int(b0 >> 3)
		g := int(b1 >> 3)
		b := int(b2 >> 3)
		dr := signExtend3(int(b0 & 0x7))
		dg := signExtend3(int(b1 & 0x7))
		db := signExtend3(int(b2 & 0x7))
		r1, g1, b1c = int(expand5(uint8(r))), int(expand5(uint8(g))), int(expand5(uint8(b)))
		r2, g2, b2c = int(expand5(uint8(r+dr))), int(expand5(uint8(g+dg))), int(expand5(uint8(b+db)))
	} else {
		r1, r2 = int(expand4(b0>>4)), int(expand4(b0&0xF))
		g1, g2 = int(expand4(b1>>4)), int(expand4(b1&0xF))
		b1c, b2c = int(expand4(b2>>4)), int(expand4(b2&0xF))
	}

	pixelData := uint32(block[4])<<24 | uint32(block[5])<<16 | uint32(block[6])<<8 | uint32(block[7])

	var out [16][4]uint8
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			pixelNum := uint(x*4 + y)
			var subblock2 bool
			if flip {
				subblock2 = y >= 2
			} else {
				subblock2 = x >= 2
			}
			table := table1
			br, bg, bb := r1, g1, b1c
			if subblock2 {
				table = table2
				br, bg, bb = r2, g2, b2c
			}
			msb := (pixelData >> (pixelNum + 16)) & 1
			lsb := (pixelData >> pixelNum) & 1
			mod := etc1Modifiers[table][msb<<1|lsb]
			out[y*4+x] = [4]uint8{clamp255(br + mod), clamp255(bg + mod), clamp255(bb + mod), 255}
		}
	}
	return out
}

// signExtend3 sign-extends a 3-bit two's complement value.
func signExtend3(v int) int {
	if v > 3 {
		return v - 8
	}
	return v
}
