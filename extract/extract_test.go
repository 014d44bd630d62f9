// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/saferwall/unityasset/core"
)

func buildMixedDocument(t *testing.T) *core.Document {
	t.Helper()
	doc := core.NewDocument("scene.unity", core.FormatYAML)

	go1 := core.NewClass(1, "", "100")
	go1.Set("m_Name", core.String("Player"))
	if err := doc.AddEntry(go1); err != nil {
		t.Fatal(err)
	}

	mb1 := core.NewClass(114, "", "200")
	mb1.Set("m_Name", core.String("Controller"))
	if err := doc.AddEntry(mb1); err != nil {
		t.Fatal(err)
	}

	mb2 := core.NewClass(114, "", "201")
	mb2.Set("m_Name", core.String("Health"))
	if err := doc.AddEntry(mb2); err != nil {
		t.Fatal(err)
	}

	return doc
}

func TestToDirectoryWritesOneFilePerMatchingEntry(t *testing.T) {
	doc := buildMixedDocument(t)
	dir := t.TempDir()

	paths, err := ToDirectory(doc, dir, Options{Types: []string{"MonoBehaviour"}})
	if err != nil {
		t.Fatalf("ToDirectory: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(paths), paths)
	}

	wantNames := []string{"MonoBehaviour_001_200.yaml", "MonoBehaviour_002_201.yaml"}
	for i, want := range wantNames {
		got := filepath.Base(paths[i])
		if got != want {
			t.Errorf("paths[%d] = %q, want %q", i, got, want)
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Errorf("stat %q: %v", paths[i], err)
		}
	}
}

func TestToDirectoryWithNoTypesWritesEveryEntry(t *testing.T) {
	doc := buildMixedDocument(t)
	dir := t.TempDir()

	paths, err := ToDirectory(doc, dir, Options{})
	if err != nil {
		t.Fatalf("ToDirectory: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}
}

func TestDecodeTextureMissingWidthIsPropertyNotFound(t *testing.T) {
	class := core.NewClass(28, "", "1")
	_, err := DecodeTexture(class, nil)
	if err == nil {
		t.Fatal("expected an error for a Texture2D missing m_Width")
	}
	var cerr *core.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error is not a *core.Error: %v", err)
	}
	if cerr.Kind != core.KindPropertyNotFound {
		t.Errorf("Kind = %v, want KindPropertyNotFound", cerr.Kind)
	}
}

func TestDecodeTextureStreamingRequiresResolver(t *testing.T) {
	class := core.NewClass(28, "", "1")
	class.Set("m_Width", core.Int(4))
	class.Set("m_Height", core.Int(4))
	class.Set("m_TextureFormat", core.Int(3)) // RGB24, chosen for its basic-category id
	stream := core.NewObject()
	stream.Set("path", core.String("archive:/CAB-a/CAB-a.resS"))
	stream.Set("offset", core.Int(0))
	stream.Set("size", core.Int(48))
	class.Set("m_StreamData", core.Obj(stream))

	_, err := DecodeTexture(class, nil)
	if err == nil {
		t.Fatal("expected an error: streaming texture with no resolver")
	}
}
