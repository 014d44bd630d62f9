// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package core

import "testing"

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("m_Name", String("Player"))
	o.Set("m_IsActive", Int(1))
	o.Set("m_TagString", String("Untagged"))

	want := []string{"m_Name", "m_IsActive", "m_TagString"}
	for i := 0; i < 2; i++ {
		got := o.Keys()
		if len(got) != len(want) {
			t.Fatalf("pass %d: Keys() = %v, want %v", i, got, want)
		}
		for j, k := range want {
			if got[j] != k {
				t.Fatalf("pass %d: Keys()[%d] = %q, want %q", i, j, got[j], k)
			}
		}
	}
}

func TestObjectSetOnExistingKeyKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("a", Int(1))
	o.Set("b", Int(2))
	o.Set("a", Int(99))

	got := o.Keys()
	want := []string{"a", "b"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("Keys()[%d] = %q, want %q", i, got[i], k)
		}
	}
	v, ok := o.Get("a")
	if !ok {
		t.Fatal("Get(a) missing")
	}
	if n, _ := v.AsInt(); n != 99 {
		t.Fatalf("Get(a) = %d, want 99", n)
	}
}

func TestObjectDeletePreservesOrder(t *testing.T) {
	o := NewObject()
	o.Set("a", Int(1))
	o.Set("b", Int(2))
	o.Set("c", Int(3))
	o.Delete("b")

	got := o.Keys()
	want := []string{"a", "c"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Keys() after delete = %v, want %v", got, want)
	}
	if o.Has("b") {
		t.Fatal("Has(b) = true after delete")
	}
}

func TestValueAsIntCoercions(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int64
	}{
		{"int", Int(42), 42},
		{"float", Float(3.9), 3},
		{"bool true", Bool(true), 1},
		{"bool false", Bool(false), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.AsInt()
			if !ok {
				t.Fatalf("AsInt() ok = false")
			}
			if got != tt.want {
				t.Fatalf("AsInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValueAsIntRejectsStringAndArray(t *testing.T) {
	if _, ok := String("x").AsInt(); ok {
		t.Fatal("String.AsInt() ok = true, want false")
	}
	if _, ok := Array(nil).AsInt(); ok {
		t.Fatal("Array.AsInt() ok = true, want false")
	}
}
