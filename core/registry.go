// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"sync"
)

// classTable is the process-wide ClassID -> ClassName table, seeded
// statically like the teacher's package-level const tables (pe.go's
// dataDirMap et al.); RegisterClass can add or override entries, so all
// access goes through classTableMu.
var classTable = map[int32]string{
	1:    "GameObject",
	4:    "Transform",
	8:    "Behaviour",
	20:   "Camera",
	21:   "Material",
	23:   "MeshRenderer",
	25:   "Renderer",
	28:   "Texture2D",
	33:   "MeshFilter",
	43:   "Mesh",
	48:   "Shader",
	49:   "TextAsset",
	74:   "AnimationClip",
	82:   "AudioClip",
	83:   "AudioImporter",
	89:   "Cubemap",
	108:  "Light",
	111:  "Animation",
	114:  "MonoBehaviour",
	115:  "MonoScript",
	128:  "Font",
	129:  "PlayerSettings",
	142:  "AssetBundle",
	152:  "Cloth",
	156:  "TerrainData",
	157:  "LightmapSettings",
	159:  "NavMeshData",
	187:  "SkinnedMeshRenderer",
	198:  "ParticleSystem",
	199:  "ParticleSystemRenderer",
	212:  "SpriteRenderer",
	213:  "Sprite",
	223:  "ReflectionProbe",
	224:  "Terrain",
	241:  "OcclusionCullingSettings",
	272:  "LightProbeGroup",
	290:  "AvatarMask",
	319:  "AvatarSkeletonMask",
	329:  "HumanTemplate",
	330:  "SpeedTreeImporter",
	331:  "AudioMixerSnapshot",
	687078895: "SpriteAtlas",
}

var classTableMu sync.RWMutex

// Lookup returns the registered class name for id, or false if unknown.
func Lookup(id int32) (string, bool) {
	classTableMu.RLock()
	defer classTableMu.RUnlock()
	name, ok := classTable[id]
	return name, ok
}

// ClassNameOrSynthetic returns the registered class name for id, or a
// synthetic "UnknownType<id>" name if the id is not in the table — the
// documented KindUnknownClassID recovery path (spec §7): the object is
// still retained with its numeric id rather than dropped.
func ClassNameOrSynthetic(id int32) (name string, known bool) {
	if n, ok := Lookup(id); ok {
		return n, true
	}
	return fmt.Sprintf("UnknownType<%d>", id), false
}

// RegisterClass adds or overrides a class id -> name mapping. Intended for
// callers that load a supplementary class table (e.g. from a Unity
// version's published manifest); the default table only seeds the common
// classes exercised by this library's own tests and tooling.
func RegisterClass(id int32, name string) {
	classTableMu.Lock()
	defer classTableMu.Unlock()
	classTable[id] = name
}
