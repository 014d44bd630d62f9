// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package container

// Replaces the teacher's dvyukov/go-fuzz corpus-driven fuzz.go entry point
// with Go's built-in testing.F, per the ambient-stack decision to keep
// fuzzing without an unfetchable dependency. Both ParseBundle and
// ParseWebFile must never panic on arbitrary bytes; a recover-free crash
// here is the signal the fuzzer is built to find.

import "testing"

func FuzzParseBundle(f *testing.F) {
	f.Add(buildMinimalUnityFS([]byte("a"), []byte("b")))
	f.Add([]byte("UnityFS\x00"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ParseBundle panicked on input of length %d: %v", len(data), r)
			}
		}()
		_, _ = ParseBundle(data, nil)
	})
}

func FuzzParseWebFile(f *testing.F) {
	f.Add(buildMinimalWebFile([]byte("payload")))
	f.Add([]byte("UnityWebData\x00"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ParseWebFile panicked on input of length %d: %v", len(data), r)
			}
		}()
		_, _ = ParseWebFile(data)
	})
}

func FuzzSniff(f *testing.F) {
	f.Add([]byte("UnityFS\x00"))
	f.Add([]byte("%YAML 1.1\n"))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Sniff panicked on input of length %d: %v", len(data), r)
			}
		}()
		Sniff(data)
	})
}
