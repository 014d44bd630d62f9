// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import "fmt"

// crunchInnerFormat maps a Crunch-wrapped TextureFormat to the inner
// format its payload decompresses to, per spec §4.8's Crunch re-dispatch.
var crunchInnerFormat = map[string]string{
	"DXT1Crunched":       "DXT1",
	"DXT5Crunched":       "DXT5",
	"ETC_RGB4Crunched":   "ETC_RGB4",
	"ETC2_RGBA8Crunched": "ETC2_RGBA8",
}

// unwrapCrunch would decompress a Crunch bitstream into its inner
// block-compressed payload. No Crunch codec is linked into this module
// (the real codec is a large, bespoke bit-reader not covered by any
// library in the dependency pack), so this always reports Unsupported,
// matching spec §4.8's documented escape hatch for the optional codec.
func unwrapCrunch(formatName string, data []byte) (inner []byte, innerFormat string, err error) {
	const op = "texture.unwrapCrunch"
	if _, ok := crunchInnerFormat[formatName]; !ok {
		return nil, "", unsupportedErr(op, formatName)
	}
	return nil, "", unsupportedErr(op, fmt.Sprintf("%s (crunch codec not linked)", formatName))
}
