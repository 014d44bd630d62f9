// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package container implements Unity's binary container formats:
// AssetBundle (UnityFS/UnityWeb/UnityRaw/UnityArchive) and WebFile. It is
// the binary-format analogue of the teacher's top-level pe.File/pe.Parse
// sequencing — a signature check, a version-gated header, then a table of
// typed entries — generalized from PE's single container shape to
// Unity's family of them.
package container

import (
	"bytes"
	"strings"

	"github.com/saferwall/unityasset/compress"
)

// Kind identifies which container format a blob of bytes is.
type Kind int

// Recognized container kinds, checked in the priority order spec §6
// defines: container signature, then compression magic, then YAML
// directive, then fallback attempts.
const (
	KindUnknown Kind = iota
	KindBundle       // AssetBundle: UnityFS/UnityWeb/UnityRaw/UnityArchive
	KindWebFile      // WebFile: UnityWebData/TuanjieWebData
	KindYAML
)

// bundleSignatures are the recognized AssetBundle magic strings.
var bundleSignatures = []string{"UnityFS", "UnityWeb", "UnityRaw", "UnityArchive"}

// webFileSignatures are the recognized WebFile magic strings. Per spec's
// Open Question, TuanjieWebData is treated as byte-identical framing to
// UnityWebData until a divergence is observed.
var webFileSignatures = []string{"UnityWebData", "TuanjieWebData"}

// Sniff classifies raw file bytes by the priority list in spec §6:
// container signature -> compression magic -> YAML directive.
// gzip- or Brotli-framed bytes are classified as KindWebFile; the framing
// itself is removed later by DecompressIfFramed.
func Sniff(data []byte) Kind {
	for _, sig := range bundleSignatures {
		if hasCString(data, sig) {
			return KindBundle
		}
	}
	for _, sig := range webFileSignatures {
		if hasCString(data, sig) {
			return KindWebFile
		}
	}
	if compress.IsGzipFramed(data) || compress.IsBrotliFramed(data) {
		return KindWebFile
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, "\xef\xbb\xbf"), []byte("%YAML")) {
		return KindYAML
	}
	return KindUnknown
}

func hasCString(data []byte, sig string) bool {
	if len(data) < len(sig) {
		return false
	}
	return string(data[:len(sig)]) == sig
}

// DecompressIfFramed detects and removes a WebFile's outer gzip/Brotli
// framing, per spec §4.3's WebFile rule: gzip magic at offset 0, Brotli's
// Unity magic at offset 0x20, otherwise the bytes are already plain.
func DecompressIfFramed(data []byte) ([]byte, error) {
	switch {
	case compress.IsGzipFramed(data):
		return compress.DecompressGzipStream(data)
	case compress.IsBrotliFramed(data):
		return compress.DecompressBrotliStream(data)
	default:
		return data, nil
	}
}

// ext-based recognition for spec §6's recognized input extensions; used by
// callers (batch) that want a fast path before falling back to
// content sniffing.
var (
	textExtensions   = map[string]bool{".asset": true, ".prefab": true, ".unity": true, ".meta": true}
	binaryExtensions = map[string]bool{".bundle": true, ".unity3d": true, ".assets": true, ".resource": true, ".ress": true}
)

// LooksLikeYAMLExtension reports whether ext (including the leading dot)
// is one of spec §6's recognized text-format extensions.
func LooksLikeYAMLExtension(ext string) bool { return textExtensions[strings.ToLower(ext)] }

// LooksLikeBinaryExtension reports whether ext is one of spec §6's
// recognized binary-format extensions (content is still sniffed).
func LooksLikeBinaryExtension(ext string) bool { return binaryExtensions[strings.ToLower(ext)] }
