// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import (
	"image"
	"image/color"
	"math"
)

// FlipVertical mirrors img top-to-bottom in place, for callers handling
// Unity's bottom-left storage origin on platforms where the emitter
// expects a top-left-origin image (spec §4.8 post-processing hooks).
func FlipVertical(img *image.NRGBA) {
	h := img.Bounds().Dy()
	stride := img.Stride
	rowBuf := make([]byte, stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*stride : y*stride+stride]
		bot := img.Pix[(h-1-y)*stride : (h-1-y)*stride+stride]
		copy(rowBuf, top)
		copy(top, bot)
		copy(bot, rowBuf)
	}
}

// SwapRB exchanges the red and blue channels in place.
func SwapRB(img *image.NRGBA) {
	px := img.Pix
	for i := 0; i+3 < len(px); i += 4 {
		px[i], px[i+2] = px[i+2], px[i]
	}
}

// GammaCorrect applies out = 255*(in/255)^gamma to every color channel
// (alpha untouched), in place.
func GammaCorrect(img *image.NRGBA, gamma float64) {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(math.Round(255 * math.Pow(float64(i)/255, gamma)))
	}
	px := img.Pix
	for i := 0; i+3 < len(px); i += 4 {
		px[i] = lut[px[i]]
		px[i+1] = lut[px[i+1]]
		px[i+2] = lut[px[i+2]]
	}
}

// Premultiply converts img's color channels from straight to
// premultiplied alpha in place.
func Premultiply(img *image.NRGBA) {
	px := img.Pix
	for i := 0; i+3 < len(px); i += 4 {
		a := int(px[i+3])
		px[i] = uint8(int(px[i]) * a / 255)
		px[i+1] = uint8(int(px[i+1]) * a / 255)
		px[i+2] = uint8(int(px[i+2]) * a / 255)
	}
}

// Unpremultiply converts img's color channels from premultiplied back to
// straight alpha in place. Fully transparent pixels are left unchanged.
func Unpremultiply(img *image.NRGBA) {
	px := img.Pix
	for i := 0; i+3 < len(px); i += 4 {
		a := int(px[i+3])
		if a == 0 {
			continue
		}
		px[i] = uint8(min(255, int(px[i])*255/a))
		px[i+1] = uint8(min(255, int(px[i+1])*255/a))
		px[i+2] = uint8(min(255, int(px[i+2])*255/a))
	}
}

// ExtractChannel returns a single channel (0=R,1=G,2=B,3=A) as a
// grayscale image, for callers splitting a packed texture into its
// component maps.
func ExtractChannel(img *image.NRGBA, channel int) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			out.SetGray(x, y, color.Gray{Y: img.Pix[i+channel]})
		}
	}
	return out
}

// MergeChannels composes four single-channel images (any may be nil, in
// which case that channel defaults to 0, or 255 for alpha) into one RGBA
// image. All non-nil inputs must share width x height.
func MergeChannels(width, height int, r, g, b, a *image.Gray) *image.NRGBA {
	out := newImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			setPixel(out, x, y,
				grayAt(r, x, y, 0),
				grayAt(g, x, y, 0),
				grayAt(b, x, y, 0),
				grayAt(a, x, y, 255))
		}
	}
	return out
}

func grayAt(img *image.Gray, x, y int, def uint8) uint8 {
	if img == nil {
		return def
	}
	return img.GrayAt(x, y).Y
}

// ResizeNearest produces a newWidth x newHeight copy of img using
// nearest-neighbor sampling.
func ResizeNearest(img *image.NRGBA, newWidth, newHeight int) *image.NRGBA {
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	out := newImage(newWidth, newHeight)
	for y := 0; y < newHeight; y++ {
		sy := y * srcH / newHeight
		for x := 0; x < newWidth; x++ {
			sx := x * srcW / newWidth
			i := img.PixOffset(sx, sy)
			setPixel(out, x, y, img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3])
		}
	}
	return out
}
