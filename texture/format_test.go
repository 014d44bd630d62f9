// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package texture

import "testing"

func TestByNameAndByIDAgree(t *testing.T) {
	f, ok := ByName("RGBA4444")
	if !ok {
		t.Fatal("ByName(RGBA4444) not found")
	}
	byID, ok := ByID(f.ID)
	if !ok || byID.Name != "RGBA4444" {
		t.Errorf("ByID(%d) = %+v, %v; want RGBA4444", f.ID, byID, ok)
	}
}

func TestExpectedDataSizeZeroBlockSizeIsSafe(t *testing.T) {
	crunch, ok := ByName("DXT1Crunched")
	if !ok {
		t.Fatal("ByName(DXT1Crunched) not found")
	}
	if got := crunch.ExpectedDataSize(4, 4); got != 0 {
		t.Errorf("Crunch format (unknown payload size) = %d, want 0", got)
	}
}

func TestUnsupportedFormatsAreMarked(t *testing.T) {
	for _, name := range []string{"BC6H", "BC7", "ETC2_RGB", "ASTC_RGB_4x4", "PVRTC_RGB2"} {
		f, ok := ByName(name)
		if !ok {
			t.Fatalf("ByName(%s) not found", name)
		}
		if f.Supported {
			t.Errorf("%s marked Supported, want false (no decoder wired)", name)
		}
	}
}

func TestCrunchFormatsUnwrapToUnsupported(t *testing.T) {
	_, err := Decode("DXT5Crunched", 4, 4, make([]byte, 64))
	if err == nil {
		t.Fatal("Decode DXT5Crunched returned nil error, want Unsupported (no codec linked)")
	}
}
