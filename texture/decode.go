// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import (
	"fmt"
	"image"

	"github.com/saferwall/unityasset/core"
)

const maxDimension = 16384

// Decode dispatches data for the named TextureFormat to the appropriate
// category decoder and returns an RGBA8, top-left-origin image (spec
// §4.8). Crunch formats are unwrapped first and the inner format
// re-dispatched, since a Crunch stream's payload is itself DXT1/DXT5/
// ETC1/ETC2 once decompressed.
func Decode(formatName string, width, height int, data []byte) (*image.NRGBA, error) {
	const op = "texture.Decode"

	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, core.NewError(core.KindInvalidGeometry, op,
			fmt.Errorf("invalid dimensions %dx%d", width, height))
	}

	f, ok := ByName(formatName)
	if !ok {
		return nil, unsupportedErr(op, formatName)
	}

	if f.Category == CategoryCrunch {
		inner, innerName, err := unwrapCrunch(formatName, data)
		if err != nil {
			return nil, err
		}
		return Decode(innerName, width, height, inner)
	}

	if !f.Supported {
		return nil, unsupportedErr(op, formatName)
	}

	expected := f.ExpectedDataSize(width, height)
	if int64(len(data)) < expected {
		return nil, core.NewError(core.KindCorruptStream, op,
			fmt.Errorf("format %s needs %d bytes for %dx%d, got %d", formatName, expected, width, height, len(data)))
	}

	switch f.Category {
	case CategoryBasic:
		return decodeBasic(f, width, height, data)
	case CategoryCompressed:
		return decodeBlockCompressed(f, width, height, data)
	case CategoryMobile:
		return decodeMobile(f, width, height, data)
	default:
		return nil, unsupportedErr(op, formatName)
	}
}

// newImage allocates the RGBA8 destination image every decoder fills in.
func newImage(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

func setPixel(img *image.NRGBA, x, y int, r, g, b, a uint8) {
	i := img.PixOffset(x, y)
	img.Pix[i] = r
	img.Pix[i+1] = g
	img.Pix[i+2] = b
	img.Pix[i+3] = a
}
