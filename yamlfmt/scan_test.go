// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package yamlfmt

import (
	"bytes"
	"strings"
	"testing"
)

const minimalGameObject = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!1 &100000
GameObject:
  m_Name: Player
  m_IsActive: 1
`

func TestScanMinimalGameObject(t *testing.T) {
	doc, err := Scan(strings.NewReader(minimalGameObject), "player.yaml", Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	entry := doc.Entry()
	if entry.ClassName != "GameObject" {
		t.Errorf("ClassName = %q, want GameObject", entry.ClassName)
	}
	if entry.Anchor != "100000" {
		t.Errorf("Anchor = %q, want 100000", entry.Anchor)
	}
	name, ok := entry.Name()
	if !ok || name != "Player" {
		t.Errorf("Name() = (%q, %v), want (Player, true)", name, ok)
	}
	v, ok := entry.Get("m_IsActive")
	if !ok {
		t.Fatal("m_IsActive missing")
	}
	i, ok := v.AsInt()
	if !ok || i != 1 {
		t.Errorf("m_IsActive = (%d, %v), want (1, true) with PreserveTypes off", i, ok)
	}
}

func TestScanPreserveTypesSentinelBool(t *testing.T) {
	doc, err := Scan(strings.NewReader(minimalGameObject), "player.yaml", Options{PreserveTypes: true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	v, ok := doc.Entry().Get("m_IsActive")
	if !ok {
		t.Fatal("m_IsActive missing")
	}
	b, ok := v.AsBool()
	if !ok || !b {
		t.Errorf("m_IsActive = (%v, %v), want (true, true) with PreserveTypes on", b, ok)
	}
}

const multiDocStream = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!1 &100000
GameObject:
  m_Name: Root
--- !u!4 &100001
Transform:
  m_LocalPosition: {x: 0, y: 0, z: 0}
--- !u!1 &100002
GameObject:
  m_Name: Child
`

func TestScanMultiDocumentOrderAndFilter(t *testing.T) {
	doc, err := Scan(strings.NewReader(multiDocStream), "scene.yaml", Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if doc.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", doc.Len())
	}
	entries := doc.Entries()
	if entries[0].Anchor != "100000" || entries[1].Anchor != "100001" || entries[2].Anchor != "100002" {
		t.Fatalf("entries out of source order: %+v", entries)
	}
	transforms := doc.FilterByClass("Transform")
	if len(transforms) != 1 {
		t.Fatalf("FilterByClass(Transform) len = %d, want 1", len(transforms))
	}
}

func TestScanStrippedPlaceholderEmptyBody(t *testing.T) {
	const stripped = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!1 &100000 stripped
`
	doc, err := Scan(strings.NewReader(stripped), "stripped.yaml", Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	entry := doc.Entry()
	if entry.ExtraAnchorData != "stripped" {
		t.Errorf("ExtraAnchorData = %q, want stripped", entry.ExtraAnchorData)
	}
	if entry.Properties.Len() != 0 {
		t.Errorf("Properties.Len() = %d, want 0", entry.Properties.Len())
	}
}

func TestScanEmptyInputIsCorruptStream(t *testing.T) {
	_, err := Scan(strings.NewReader("   \n"), "empty.yaml", Options{})
	if err == nil {
		t.Fatal("Scan(empty) returned nil error")
	}
}

func TestScanEmitRoundTripPreservesEntries(t *testing.T) {
	doc, err := Scan(strings.NewReader(multiDocStream), "scene.yaml", Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	var buf bytes.Buffer
	if err := Emit(&buf, doc, Options{}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	doc2, err := Scan(&buf, "scene.yaml", Options{})
	if err != nil {
		t.Fatalf("re-Scan emitted output: %v\n--- emitted ---\n%s", err, buf.String())
	}
	if doc2.Len() != doc.Len() {
		t.Fatalf("round trip Len() = %d, want %d", doc2.Len(), doc.Len())
	}
	for i, e := range doc.Entries() {
		e2 := doc2.Entries()[i]
		if e2.ClassName != e.ClassName || e2.Anchor != e.Anchor {
			t.Errorf("entry %d: got (%s,%s), want (%s,%s)", i, e2.ClassName, e2.Anchor, e.ClassName, e.Anchor)
		}
	}
	root, _ := doc2.ByAnchor("100000")
	name, ok := root.Name()
	if !ok || name != "Root" {
		t.Errorf("round-tripped m_Name = (%q,%v), want (Root,true)", name, ok)
	}
}
