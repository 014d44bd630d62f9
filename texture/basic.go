// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import (
	"image"
)

// decodeBasic unpacks the Basic category's per-pixel formats (spec §4.8):
// memcpy+reorder formats, plus the two bit-packed 16-bit formats that need
// nibble/bitfield expansion.
func decodeBasic(f Format, width, height int, data []byte) (*image.NRGBA, error) {
	switch f.Name {
	case "Alpha8":
		return decodeAlpha8(width, height, data), nil
	case "R8":
		return decodeR8(width, height, data), nil
	case "RG16":
		return decodeRG16(width, height, data), nil
	case "R16":
		return decodeR16(width, height, data), nil
	case "RGB24":
		return decodePacked(width, height, data, 3, [4]int{0, 1, 2, -1}), nil
	case "RGBA32":
		return decodePacked(width, height, data, 4, [4]int{0, 1, 2, 3}), nil
	case "ARGB32":
		return decodePacked(width, height, data, 4, [4]int{1, 2, 3, 0}), nil
	case "BGRA32":
		return decodePacked(width, height, data, 4, [4]int{2, 1, 0, 3}), nil
	case "RGB565":
		return decodeRGB565(width, height, data), nil
	case "RGBA4444":
		return decode4444(width, height, data, true), nil
	case "ARGB4444":
		return decode4444(width, height, data, false), nil
	default:
		return nil, unsupportedErr("texture.decodeBasic", f.Name)
	}
}

func decodeAlpha8(width, height int, data []byte) *image.NRGBA {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := data[y*width+x]
			setPixel(img, x, y, 0, 0, 0, a)
		}
	}
	return img
}

func decodeR8(width, height int, data []byte) *image.NRGBA {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := data[y*width+x]
			setPixel(img, x, y, r, 0, 0, 255)
		}
	}
	return img
}

func decodeR16(width, height int, data []byte) *image.NRGBA {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 2
			r := data[o+1] // high byte of the 16-bit channel, downsampled to 8 bits
			setPixel(img, x, y, r, 0, 0, 255)
		}
	}
	return img
}

func decodeRG16(width, height int, data []byte) *image.NRGBA {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 2
			setPixel(img, x, y, data[o], data[o+1], 0, 255)
		}
	}
	return img
}

// decodePacked handles the memcpy+reorder formats: srcStride bytes per
// pixel, order names which source byte index feeds R/G/B/A (-1 = not
// present, alpha defaults to opaque).
func decodePacked(width, height int, data []byte, srcStride int, order [4]int) *image.NRGBA {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * srcStride
			px := data[o : o+srcStride]
			channel := func(idx int) uint8 {
				if idx < 0 {
					return 255
				}
				return px[idx]
			}
			setPixel(img, x, y, channel(order[0]), channel(order[1]), channel(order[2]), channel(order[3]))
		}
	}
	return img
}

// expand5 widens a 5-bit channel to 8 bits via r<<3|r>>2 (spec §4.8).
func expand5(v uint8) uint8 { return v<<3 | v>>2 }

// expand6 widens a 6-bit channel to 8 bits via g<<2|g>>4 (spec §4.8).
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

// expand4 widens a 4-bit nibble to 8 bits via n<<4|n (spec §4.8).
func expand4(v uint8) uint8 { return v<<4 | v }

// decodeRGB565 reads each pixel as a little-endian u16 packed
// RRRRRGGGGGGBBBBB (bit 15 down to bit 0) and bit-expands each channel.
func decodeRGB565(width, height int, data []byte) *image.NRGBA {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 2
			v := uint16(data[o]) | uint16(data[o+1])<<8
			r := uint8((v >> 11) & 0x1F)
			g := uint8((v >> 5) & 0x3F)
			b := uint8(v & 0x1F)
			setPixel(img, x, y, expand5(r), expand6(g), expand5(b), 255)
		}
	}
	return img
}

// decode4444 reads each pixel as a little-endian u16 and expands its four
// nibbles. RGBA4444 packs, low nibble to high, R|G in the low byte and
// B|A in the high byte; ARGB4444 shifts the same packing by one channel
// (A|R low byte, G|B high byte).
func decode4444(width, height int, data []byte, rgba bool) *image.NRGBA {
	img := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 2
			lo, hi := data[o], data[o+1]
			var r, g, b, a uint8
			if rgba {
				r, g = lo&0xF, lo>>4
				b, a = hi&0xF, hi>>4
			} else {
				a, r = lo&0xF, lo>>4
				g, b = hi&0xF, hi>>4
			}
			setPixel(img, x, y, expand4(r), expand4(g), expand4(b), expand4(a))
		}
	}
	return img
}

