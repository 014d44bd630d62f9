// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package extract

import (
	"fmt"
	"image"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/texture"
)

// StreamResolver fetches the bytes of a streaming texture's sibling
// resource file (spec §3/§9: "stream_info.path resolution is a caller
// concern"). path is the value of the class's m_StreamData.path field.
type StreamResolver func(path string, offset, size int64) ([]byte, error)

// DecodeTexture decodes a Texture2D class's pixel data to an RGBA8 image.
// If the texture is a "streaming" texture (its image data lives in a
// sibling .resS file rather than inline — spec §3's StreamInfo), resolve
// must be non-nil; it is called with the stream's path/offset/size and
// must return exactly `size` bytes.
func DecodeTexture(class *core.Class, resolve StreamResolver) (*image.NRGBA, error) {
	const op = "extract.DecodeTexture"

	width, height, formatName, err := textureGeometry(class)
	if err != nil {
		return nil, err
	}

	data, err := textureImageData(class, resolve)
	if err != nil {
		return nil, err
	}

	return texture.Decode(formatName, width, height, data)
}

func textureGeometry(class *core.Class) (width, height int, formatName string, err error) {
	const op = "extract.textureGeometry"

	w, ok := intProp(class, "m_Width")
	if !ok {
		return 0, 0, "", core.NewError(core.KindPropertyNotFound, op, fmt.Errorf("%s: missing m_Width", class.Anchor))
	}
	h, ok := intProp(class, "m_Height")
	if !ok {
		return 0, 0, "", core.NewError(core.KindPropertyNotFound, op, fmt.Errorf("%s: missing m_Height", class.Anchor))
	}

	formatID, ok := intProp(class, "m_TextureFormat")
	if !ok {
		return 0, 0, "", core.NewError(core.KindPropertyNotFound, op, fmt.Errorf("%s: missing m_TextureFormat", class.Anchor))
	}
	f, ok := texture.ByID(int32(formatID))
	if !ok {
		return 0, 0, "", core.NewError(core.KindUnsupported, op, fmt.Errorf("%s: unrecognized TextureFormat id %d", class.Anchor, formatID))
	}
	return int(w), int(h), f.Name, nil
}

// textureImageData returns the texture's raw pixel bytes: the inline
// "image data" property when present and non-empty, else the resolved
// bytes of its m_StreamData sibling resource (spec §3's Texture2D
// invariant: "if stream_info.path is non-empty ... image_data may be
// empty and the external resource must be fetched").
func textureImageData(class *core.Class, resolve StreamResolver) ([]byte, error) {
	const op = "extract.textureImageData"

	if v, ok := class.Get("image data"); ok {
		if data, ok := bytesFromValue(v); ok && len(data) > 0 {
			return data, nil
		}
	}

	streamObj, ok := objProp(class, "m_StreamData")
	if !ok {
		return nil, core.NewError(core.KindIO, op, fmt.Errorf("%s: no inline image data and no m_StreamData", class.Anchor))
	}
	pathVal, _ := streamObj.Get("path")
	path, _ := pathVal.AsString()
	offVal, _ := streamObj.Get("offset")
	offset, _ := offVal.AsInt()
	sizeVal, _ := streamObj.Get("size")
	size, _ := sizeVal.AsInt()

	if path == "" || size == 0 {
		return nil, core.NewError(core.KindIO, op, fmt.Errorf("%s: empty streamed image data", class.Anchor))
	}
	if resolve == nil {
		return nil, core.NewError(core.KindIO, op, fmt.Errorf("%s: streaming texture %q needs a StreamResolver", class.Anchor, path))
	}
	return resolve(path, offset, size)
}

func intProp(class *core.Class, key string) (int64, bool) {
	v, ok := class.Get(key)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func objProp(class *core.Class, key string) (*core.Object, bool) {
	v, ok := class.Get(key)
	if !ok {
		return nil, false
	}
	return v.AsObject()
}

// bytesFromValue converts the decoded form of a byte-array field (either
// a core.String, when a decoder chose to pack raw bytes that way, or a
// core.Array of per-byte core.Int values, the type-tree decoder's default
// for an UInt8 array) into a []byte.
func bytesFromValue(v core.Value) ([]byte, bool) {
	if s, ok := v.AsString(); ok {
		return []byte(s), true
	}
	arr, ok := v.AsArray()
	if !ok {
		return nil, false
	}
	out := make([]byte, len(arr))
	for i, e := range arr {
		n, ok := e.AsInt()
		if !ok {
			return nil, false
		}
		out[i] = byte(n)
	}
	return out, true
}
