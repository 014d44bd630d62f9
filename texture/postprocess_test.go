// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import (
	"image"
	"testing"
)

func solidImage(w, h int, r, g, b, a uint8) *image.NRGBA {
	img := newImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			setPixel(img, x, y, r, g, b, a)
		}
	}
	return img
}

func TestFlipVertical(t *testing.T) {
	img := newImage(2, 2)
	setPixel(img, 0, 0, 1, 0, 0, 255)
	setPixel(img, 0, 1, 2, 0, 0, 255)
	FlipVertical(img)
	if img.NRGBAAt(0, 0).R != 2 || img.NRGBAAt(0, 1).R != 1 {
		t.Errorf("FlipVertical did not swap rows: %+v / %+v", img.NRGBAAt(0, 0), img.NRGBAAt(0, 1))
	}
}

func TestSwapRB(t *testing.T) {
	img := solidImage(1, 1, 10, 20, 30, 255)
	SwapRB(img)
	got := img.NRGBAAt(0, 0)
	if got.R != 30 || got.B != 10 {
		t.Errorf("SwapRB = %+v, want R=30 B=10", got)
	}
}

func TestPremultiplyUnpremultiplyRoundTrip(t *testing.T) {
	img := solidImage(1, 1, 200, 100, 50, 128)
	Premultiply(img)
	premult := img.NRGBAAt(0, 0)
	if premult.R >= 200 {
		t.Errorf("Premultiply did not darken color: %+v", premult)
	}
	Unpremultiply(img)
	got := img.NRGBAAt(0, 0)
	if absDiff(got.R, 200) > 1 || absDiff(got.G, 100) > 1 || absDiff(got.B, 50) > 1 {
		t.Errorf("round trip = %+v, want ~ (200,100,50,128)", got)
	}
}

func absDiff(a uint8, b int) int {
	d := int(a) - b
	if d < 0 {
		return -d
	}
	return d
}

func TestGammaCorrectIdentityAtGammaOne(t *testing.T) {
	img := solidImage(1, 1, 128, 64, 32, 255)
	GammaCorrect(img, 1.0)
	got := img.NRGBAAt(0, 0)
	if got.R != 128 || got.G != 64 || got.B != 32 {
		t.Errorf("gamma 1.0 changed pixel: %+v", got)
	}
}

func TestExtractAndMergeChannels(t *testing.T) {
	img := solidImage(2, 2, 10, 20, 30, 40)
	r := ExtractChannel(img, 0)
	g := ExtractChannel(img, 1)
	merged := MergeChannels(2, 2, r, g, nil, nil)
	got := merged.NRGBAAt(0, 0)
	if got.R != 10 || got.G != 20 || got.B != 0 || got.A != 255 {
		t.Errorf("merged = %+v, want (10,20,0,255)", got)
	}
}

func TestResizeNearestPreservesSolidColor(t *testing.T) {
	img := solidImage(4, 4, 9, 9, 9, 255)
	out := ResizeNearest(img, 2, 2)
	if out.Bounds().Dx() != 2 || out.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", out.Bounds())
	}
	if got := out.NRGBAAt(1, 1); got.R != 9 {
		t.Errorf("resized pixel = %+v, want R=9", got)
	}
}
