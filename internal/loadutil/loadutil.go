// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package loadutil bridges the container, serialized, and core packages:
// it turns an already-parsed AssetBundle/WebFile's embedded byte streams
// into a core.Document of decoded objects. It exists so batch and
// cmd/unityasset don't each reimplement "is this embedded file a SerializedFile, and if
// so, decode every object in it" — the same bridging step the teacher
// leaves inline in cmd/dump.go but this library exposes as a reusable
// helper since it has two callers (batch, cmd/unityasset) rather than one.
package loadutil

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/internal/logx"
	"github.com/saferwall/unityasset/serialized"
)

// DocumentFromEntries decodes every embedded file in files (in sorted name
// order) that
// parses as a SerializedFile into one aggregate core.Document tagged
// FormatBinary, sourcePath recorded for diagnostics. Entries that are not
// SerializedFile streams (e.g. a sibling .resS resource blob) are skipped
// rather than treated as an error — spec §3 calls these "streaming"
// payloads, a caller concern resolved through Texture2D.StreamInfo, not a
// parse failure.
func DocumentFromEntries(sourcePath string, files map[string][]byte, logger *logx.Helper) (*core.Document, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	doc := core.NewDocument(sourcePath, core.FormatBinary)

	for _, name := range sortedNames(files) {
		sf, err := serialized.Parse(files[name], logger)
		if err != nil {
			logger.Warnf("loadutil: %s: not a SerializedFile, skipping: %v", name, err)
			continue
		}
		if err := appendObjects(doc, sf, logger); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// DocumentFromSerializedFile decodes every object in a single already-
// parsed SerializedFile into a new core.Document — the path used when a
// caller has extracted exactly one embedded file and wants its own
// Document rather than an aggregate.
func DocumentFromSerializedFile(sourcePath string, sf *serialized.File, logger *logx.Helper) (*core.Document, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	doc := core.NewDocument(sourcePath, core.FormatBinary)
	if err := appendObjects(doc, sf, logger); err != nil {
		return nil, err
	}
	return doc, nil
}

func appendObjects(doc *core.Document, sf *serialized.File, logger *logx.Helper) error {
	for _, entry := range sf.Objects {
		class, err := classFromObject(sf, entry, logger)
		if err != nil {
			logger.Warnf("loadutil: path_id=%d: %v", entry.PathID, err)
			continue
		}
		if err := doc.AddEntry(class); err != nil {
			// Duplicate anchor within one SerializedFile would be a
			// genuine format violation; surface it rather than drop it.
			return err
		}
	}
	return nil
}

// classFromObject decodes entry's body and wraps it as a core.Class. The
// class id is entry.ClassID when the legacy (v<17) field is populated,
// else entry.TypeID doubles as the persistent class id in this wire
// format (spec §4.4 step 5's type table keys objects by the same type_id
// values the type table itself carries).
func classFromObject(sf *serialized.File, entry serialized.ObjectEntry, logger *logx.Helper) (*core.Class, error) {
	classID := entry.TypeID
	if entry.ClassID != 0 {
		classID = int32(entry.ClassID)
	}

	anchor := strconv.FormatInt(entry.PathID, 10)
	class := core.NewClass(classID, "", anchor)
	if !class.ClassIDKnown {
		logger.Warnf("loadutil: unknown class id %d (path_id=%d)", classID, entry.PathID)
	}

	val, err := serialized.DecodeObject(sf, entry)
	if err != nil {
		return nil, err
	}
	obj, ok := val.AsObject()
	if !ok {
		return nil, core.NewError(core.KindSchemaMismatch, "loadutil.classFromObject",
			fmt.Errorf("path_id=%d: decoded root value is not an object (kind=%s)", entry.PathID, val.Kind))
	}
	obj.Range(func(key string, v core.Value) bool {
		class.Set(key, v)
		return true
	})
	return class, nil
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	// Deterministic order matters for reproducible anchor-collision
	// reporting across repeated runs on the same bundle.
	sort.Strings(names)
	return names
}
