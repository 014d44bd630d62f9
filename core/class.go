// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package core

// Class is a single parsed Unity object: a class id/name pair, a
// document-unique anchor, and an insertion-ordered property map. It is the
// same struct whether it came off the YAML frontend or the binary
// type-tree parser.
type Class struct {
	ClassID   int32
	ClassName string

	// Anchor is the document-unique identifier: the decimal after '&' in
	// YAML, or the path_id rendered as decimal for binary assets.
	Anchor string

	// ExtraAnchorData is the opaque trailer bytes following the anchor on
	// a YAML document-start line (`--- !u!1 &100000 stripped`), preserved
	// verbatim for round-trip. Empty for binary-sourced classes.
	ExtraAnchorData string

	// ClassIDKnown is false when ClassID was not present in the registry
	// at parse time; ClassName is then the synthetic "UnknownType<id>".
	ClassIDKnown bool

	Properties *Object
}

// NewClass builds a Class, resolving classID through the registry when
// className is empty.
func NewClass(classID int32, className, anchor string) *Class {
	known := true
	if className == "" {
		className, known = ClassNameOrSynthetic(classID)
	}
	return &Class{
		ClassID:      classID,
		ClassName:    className,
		Anchor:       anchor,
		ClassIDKnown: known,
		Properties:   NewObject(),
	}
}

// Get returns a property by key.
func (c *Class) Get(key string) (Value, bool) {
	return c.Properties.Get(key)
}

// Set sets a property, preserving first-seen order.
func (c *Class) Set(key string, v Value) {
	c.Properties.Set(key, v)
}

// HasProperty reports whether key is present.
func (c *Class) HasProperty(key string) bool {
	return c.Properties.Has(key)
}

// PropertyNames returns property keys in insertion order.
func (c *Class) PropertyNames() []string {
	return c.Properties.Keys()
}

// Name returns the m_Name field coerced to a string, if present. Most
// Unity objects (GameObject, Texture2D, AnimationClip, ...) carry m_Name;
// objects that don't (Transform, for instance) return ok=false.
func (c *Class) Name() (string, bool) {
	v, ok := c.Properties.Get("m_Name")
	if !ok {
		return "", false
	}
	return v.AsString()
}
