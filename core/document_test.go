// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package core

import "testing"

func mkClass(id int32, name, anchor string) *Class {
	return NewClass(id, name, anchor)
}

func TestDocumentRejectsDuplicateAnchor(t *testing.T) {
	d := NewDocument("t.unity", FormatYAML)
	if err := d.AddEntry(mkClass(1, "GameObject", "100000")); err != nil {
		t.Fatalf("first AddEntry: %v", err)
	}
	err := d.AddEntry(mkClass(4, "Transform", "100000"))
	if err == nil {
		t.Fatal("AddEntry with duplicate anchor returned nil error")
	}
}

func TestDocumentFilterPreservesOrder(t *testing.T) {
	d := NewDocument("t.unity", FormatYAML)
	_ = d.AddEntry(mkClass(1, "GameObject", "1"))
	_ = d.AddEntry(mkClass(4, "Transform", "2"))
	_ = d.AddEntry(mkClass(114, "MonoBehaviour", "3"))
	_ = d.AddEntry(mkClass(4, "Transform", "4"))

	if d.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", d.Len())
	}

	transforms := d.FilterByClass("Transform")
	if len(transforms) != 2 {
		t.Fatalf("FilterByClass(Transform) = %d entries, want 2", len(transforms))
	}
	if transforms[0].Anchor != "2" || transforms[1].Anchor != "4" {
		t.Fatalf("FilterByClass(Transform) order wrong: %v", transforms)
	}
}

func TestDocumentFindByClassAndProperty(t *testing.T) {
	d := NewDocument("t.unity", FormatYAML)
	go1 := mkClass(1, "GameObject", "1")
	go1.Set("m_Name", String("Enemy"))
	_ = d.AddEntry(go1)
	go2 := mkClass(1, "GameObject", "2")
	go2.Set("m_Name", String("Player"))
	_ = d.AddEntry(go2)

	found := d.FindByClassAndProperty("GameObject", "m_Name")
	if found == nil {
		t.Fatal("FindByClassAndProperty returned nil")
	}
	if name, _ := found.Name(); name != "Enemy" {
		t.Fatalf("found entry name = %q, want Enemy (first match)", name)
	}
}

func TestClassUnknownClassIDGetsSyntheticName(t *testing.T) {
	c := NewClass(999999, "", "1")
	if c.ClassIDKnown {
		t.Fatal("ClassIDKnown = true for an id not in the registry")
	}
	if c.ClassName != "UnknownType<999999>" {
		t.Fatalf("ClassName = %q, want UnknownType<999999>", c.ClassName)
	}
}
