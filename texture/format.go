// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package texture decodes Unity's ~40 TextureFormat variants into RGBA8
// images (spec §4.7-4.8). Dispatch is table-driven: a static Format record
// per TextureFormat names its category, packing, and decoder, the same way
// the teacher's resource section dispatches on a directory-type table
// rather than a chain of type switches.
package texture

import (
	"fmt"

	"github.com/saferwall/unityasset/core"
)

// Category groups TextureFormat variants by decode strategy (spec §4.7).
type Category int

const (
	CategoryBasic Category = iota
	CategoryCompressed
	CategoryMobile
	CategoryCrunch
)

func (c Category) String() string {
	switch c {
	case CategoryBasic:
		return "Basic"
	case CategoryCompressed:
		return "Compressed"
	case CategoryMobile:
		return "Mobile"
	case CategoryCrunch:
		return "Crunch"
	default:
		return "Unknown"
	}
}

// BlockSize describes a compressed format's fixed tile: BlockW x BlockH
// source pixels compress into BlockBytes bytes.
type BlockSize struct {
	W, H, Bytes int
}

// Format is the static per-TextureFormat record spec §4.7 requires:
// category, bit packing, block layout, alpha presence, and whether this
// module ships a decoder for it.
type Format struct {
	Name      string
	ID        int32
	Category  Category
	BitsPerPx int // for Basic (linear) formats; 0 for block formats
	Block     BlockSize
	HasAlpha  bool
	Supported bool
}

// ExpectedDataSize implements spec §4.7's size formula: block formats use
// ceil(w/bw)*ceil(h/bh)*block_bytes, linear formats use ceil(w*h*bpp/8).
func (f Format) ExpectedDataSize(width, height int) int64 {
	if f.Block.Bytes > 0 {
		blocksX := ceilDiv(width, f.Block.W)
		blocksY := ceilDiv(height, f.Block.H)
		return int64(blocksX) * int64(blocksY) * int64(f.Block.Bytes)
	}
	bits := int64(width) * int64(height) * int64(f.BitsPerPx)
	return (bits + 7) / 8
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Well-known UnityEngine.TextureFormat numeric values, stable across Unity
// versions and published in Unity's scripting API docs.
const (
	idAlpha8         = 1
	idARGB4444       = 2
	idRGB24          = 3
	idRGBA32         = 4
	idARGB32         = 5
	idRGB565         = 7
	idR16            = 9
	idDXT1           = 10
	idDXT3           = 11
	idDXT5           = 12
	idRGBA4444       = 13
	idBGRA32         = 14
	idBC4            = 26
	idBC5            = 27
	idDXT1Crunched   = 28
	idDXT5Crunched   = 29
	idBC6H           = 24
	idBC7            = 25
	idETCRGB4        = 34
	idATCRGB4        = 35
	idATCRGBA8       = 36
	idEACR           = 41
	idEACRSigned     = 42
	idEACRG          = 43
	idEACRGSigned    = 44
	idETC2RGB        = 45
	idETC2RGBA1      = 46
	idETC2RGBA8      = 47
	idASTCRGB4x4     = 48
	idASTCRGB12x12   = 53
	idASTCRGBA4x4    = 54
	idASTCRGBA12x12  = 59
	idETCRGB4Crunch  = 64
	idETC2RGBA8Crunc = 65
	idRG16           = 62
	idR8             = 63
	idPVRTCRGB2      = 30
	idPVRTCRGBA2     = 31
	idPVRTCRGB4      = 32
	idPVRTCRGBA4     = 33
)

// formats is the static record table (spec §4.7). New variants get one
// entry here; everything else (size math, decode dispatch) follows from
// the record.
var formats = map[string]Format{
	"Alpha8":  {Name: "Alpha8", ID: idAlpha8, Category: CategoryBasic, BitsPerPx: 8, HasAlpha: true, Supported: true},
	"R8":      {Name: "R8", ID: idR8, Category: CategoryBasic, BitsPerPx: 8, Supported: true},
	"RG16":    {Name: "RG16", ID: idRG16, Category: CategoryBasic, BitsPerPx: 16, Supported: true},
	"R16":     {Name: "R16", ID: idR16, Category: CategoryBasic, BitsPerPx: 16, Supported: true},
	"RGB24":   {Name: "RGB24", ID: idRGB24, Category: CategoryBasic, BitsPerPx: 24, Supported: true},
	"RGBA32":  {Name: "RGBA32", ID: idRGBA32, Category: CategoryBasic, BitsPerPx: 32, HasAlpha: true, Supported: true},
	"ARGB32":  {Name: "ARGB32", ID: idARGB32, Category: CategoryBasic, BitsPerPx: 32, HasAlpha: true, Supported: true},
	"BGRA32":  {Name: "BGRA32", ID: idBGRA32, Category: CategoryBasic, BitsPerPx: 32, HasAlpha: true, Supported: true},
	"RGB565":  {Name: "RGB565", ID: idRGB565, Category: CategoryBasic, BitsPerPx: 16, Supported: true},
	"RGBA4444": {Name: "RGBA4444", ID: idRGBA4444, Category: CategoryBasic, BitsPerPx: 16, HasAlpha: true, Supported: true},
	"ARGB4444": {Name: "ARGB4444", ID: idARGB4444, Category: CategoryBasic, BitsPerPx: 16, HasAlpha: true, Supported: true},

	"DXT1": {Name: "DXT1", ID: idDXT1, Category: CategoryCompressed, Block: BlockSize{4, 4, 8}, Supported: true},
	"DXT3": {Name: "DXT3", ID: idDXT3, Category: CategoryCompressed, Block: BlockSize{4, 4, 16}, HasAlpha: true, Supported: true},
	"DXT5": {Name: "DXT5", ID: idDXT5, Category: CategoryCompressed, Block: BlockSize{4, 4, 16}, HasAlpha: true, Supported: true},
	"BC4":  {Name: "BC4", ID: idBC4, Category: CategoryCompressed, Block: BlockSize{4, 4, 8}, Supported: true},
	"BC5":  {Name: "BC5", ID: idBC5, Category: CategoryCompressed, Block: BlockSize{4, 4, 16}, Supported: true},
	"BC6H": {Name: "BC6H", ID: idBC6H, Category: CategoryCompressed, Block: BlockSize{4, 4, 16}, Supported: false},
	"BC7":  {Name: "BC7", ID: idBC7, Category: CategoryCompressed, Block: BlockSize{4, 4, 16}, HasAlpha: true, Supported: false},

	"ETC_RGB4":   {Name: "ETC_RGB4", ID: idETCRGB4, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, Supported: true},
	"ETC2_RGB":   {Name: "ETC2_RGB", ID: idETC2RGB, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, Supported: false},
	"ETC2_RGBA1": {Name: "ETC2_RGBA1", ID: idETC2RGBA1, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, HasAlpha: true, Supported: false},
	"ETC2_RGBA8": {Name: "ETC2_RGBA8", ID: idETC2RGBA8, Category: CategoryMobile, Block: BlockSize{4, 4, 16}, HasAlpha: true, Supported: false},
	"EAC_R":      {Name: "EAC_R", ID: idEACR, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, Supported: false},
	"EAC_R_SIGNED":  {Name: "EAC_R_SIGNED", ID: idEACRSigned, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, Supported: false},
	"EAC_RG":        {Name: "EAC_RG", ID: idEACRG, Category: CategoryMobile, Block: BlockSize{4, 4, 16}, Supported: false},
	"EAC_RG_SIGNED": {Name: "EAC_RG_SIGNED", ID: idEACRGSigned, Category: CategoryMobile, Block: BlockSize{4, 4, 16}, Supported: false},
	"ASTC_RGB_4x4":   {Name: "ASTC_RGB_4x4", ID: idASTCRGB4x4, Category: CategoryMobile, Block: BlockSize{4, 4, 16}, Supported: false},
	"ASTC_RGB_12x12": {Name: "ASTC_RGB_12x12", ID: idASTCRGB12x12, Category: CategoryMobile, Block: BlockSize{12, 12, 16}, Supported: false},
	"ASTC_RGBA_4x4":   {Name: "ASTC_RGBA_4x4", ID: idASTCRGBA4x4, Category: CategoryMobile, Block: BlockSize{4, 4, 16}, HasAlpha: true, Supported: false},
	"ASTC_RGBA_12x12": {Name: "ASTC_RGBA_12x12", ID: idASTCRGBA12x12, Category: CategoryMobile, Block: BlockSize{12, 12, 16}, HasAlpha: true, Supported: false},
	"PVRTC_RGB2":  {Name: "PVRTC_RGB2", ID: idPVRTCRGB2, Category: CategoryMobile, Block: BlockSize{8, 4, 8}, Supported: false},
	"PVRTC_RGBA2": {Name: "PVRTC_RGBA2", ID: idPVRTCRGBA2, Category: CategoryMobile, Block: BlockSize{8, 4, 8}, HasAlpha: true, Supported: false},
	"PVRTC_RGB4":  {Name: "PVRTC_RGB4", ID: idPVRTCRGB4, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, Supported: false},
	"PVRTC_RGBA4": {Name: "PVRTC_RGBA4", ID: idPVRTCRGBA4, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, HasAlpha: true, Supported: false},
	"ATC_RGB4":    {Name: "ATC_RGB4", ID: idATCRGB4, Category: CategoryMobile, Block: BlockSize{4, 4, 8}, Supported: false},
	"ATC_RGBA8":   {Name: "ATC_RGBA8", ID: idATCRGBA8, Category: CategoryMobile, Block: BlockSize{4, 4, 16}, HasAlpha: true, Supported: false},

	"DXT1Crunched":      {Name: "DXT1Crunched", ID: idDXT1Crunched, Category: CategoryCrunch, Supported: false},
	"DXT5Crunched":      {Name: "DXT5Crunched", ID: idDXT5Crunched, Category: CategoryCrunch, Supported: false},
	"ETC_RGB4Crunched":  {Name: "ETC_RGB4Crunched", ID: idETCRGB4Crunch, Category: CategoryCrunch, Supported: false},
	"ETC2_RGBA8Crunched": {Name: "ETC2_RGBA8Crunched", ID: idETC2RGBA8Crunc, Category: CategoryCrunch, HasAlpha: true, Supported: false},
}

var formatsByID map[int32]string

func init() {
	formatsByID = make(map[int32]string, len(formats))
	for name, f := range formats {
		formatsByID[f.ID] = name
	}
}

// ByName looks up a format record by its TextureFormat name.
func ByName(name string) (Format, bool) {
	f, ok := formats[name]
	return f, ok
}

// ByID looks up a format record by its TextureFormat numeric value.
func ByID(id int32) (Format, bool) {
	name, ok := formatsByID[id]
	if !ok {
		return Format{}, false
	}
	return formats[name], true
}

// unsupportedErr builds the spec §4.8 "Unsupported(format)" error for a
// format this module has no decoder for.
func unsupportedErr(op, name string) error {
	return core.NewError(core.KindUnsupported, op, fmt.Errorf("texture format %s has no decoder", name))
}
