// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package core

import "fmt"

// SourceFormat tags where a Document's bytes came from.
type SourceFormat int

// Recognized source formats.
const (
	FormatUnknown SourceFormat = iota
	FormatYAML
	FormatBinary
)

func (f SourceFormat) String() string {
	switch f {
	case FormatYAML:
		return "Yaml"
	case FormatBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Document is an ordered sequence of Class entries parsed from one source
// (a .asset/.prefab/.unity file, or a single SerializedFile extracted from
// a container). The first entry is the document's "main" entry.
type Document struct {
	SourcePath string
	Format     SourceFormat
	Version    string

	entries []*Class
	anchors map[string]int // anchor -> index, for the uniqueness invariant
}

// NewDocument returns an empty Document.
func NewDocument(sourcePath string, format SourceFormat) *Document {
	return &Document{
		SourcePath: sourcePath,
		Format:     format,
		anchors:    make(map[string]int),
	}
}

// AddEntry appends c to the document. It returns an error if c's anchor
// duplicates one already present — the spec's anchor-uniqueness invariant
// is enforced here rather than left to callers to remember.
func (d *Document) AddEntry(c *Class) error {
	if c.Anchor != "" {
		if _, dup := d.anchors[c.Anchor]; dup {
			return NewError(KindSchemaMismatch, "Document.AddEntry",
				fmt.Errorf("duplicate anchor %q", c.Anchor))
		}
		d.anchors[c.Anchor] = len(d.entries)
	}
	d.entries = append(d.entries, c)
	return nil
}

// Entry returns the main (first) entry, or nil if the document is empty.
func (d *Document) Entry() *Class {
	if len(d.entries) == 0 {
		return nil
	}
	return d.entries[0]
}

// Entries returns all entries in source order. The returned slice is owned
// by the caller.
func (d *Document) Entries() []*Class {
	out := make([]*Class, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of entries.
func (d *Document) Len() int { return len(d.entries) }

// ByAnchor returns the entry with the given anchor, if any.
func (d *Document) ByAnchor(anchor string) (*Class, bool) {
	idx, ok := d.anchors[anchor]
	if !ok {
		return nil, false
	}
	return d.entries[idx], true
}

// FilterByClass returns entries whose ClassName equals name, preserving
// document order. Filtering never mutates the document.
func (d *Document) FilterByClass(name string) []*Class {
	return d.Filter(func(c *Class) bool { return c.ClassName == name })
}

// FilterByClasses returns entries whose ClassName is any of names.
func (d *Document) FilterByClasses(names []string) []*Class {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return d.Filter(func(c *Class) bool {
		_, ok := set[c.ClassName]
		return ok
	})
}

// Filter returns entries matching predicate, preserving document order.
func (d *Document) Filter(predicate func(*Class) bool) []*Class {
	var out []*Class
	for _, c := range d.entries {
		if predicate(c) {
			out = append(out, c)
		}
	}
	return out
}

// FindByClassAndProperty returns the first entry of class className that
// has a property named propertyName, or nil if none match.
func (d *Document) FindByClassAndProperty(className, propertyName string) *Class {
	for _, c := range d.entries {
		if c.ClassName != className {
			continue
		}
		if c.HasProperty(propertyName) {
			return c
		}
	}
	return nil
}
