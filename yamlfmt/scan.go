// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package yamlfmt implements the Unity text-asset frontend: scanning a
// multi-document, `!u!<id> &<anchor>`-tagged YAML stream into core.Document
// values, and emitting a Document back out in the same dialect (spec
// §4.9-4.10). Both directions build on gopkg.in/yaml.v3's Node tree so
// mapping order survives the round trip untouched.
package yamlfmt

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saferwall/unityasset/core"
)

// Options configures the scanner/emitter.
type Options struct {
	// PreserveTypes converts Unity's sentinel integer booleans (0/1 on a
	// known boolean field) to core.Bool on scan, and back to 0/1 on emit
	// when false. Default false: sentinel ints pass through as ints.
	PreserveTypes bool
}

// booleanFields is the fixed set of property names Unity's own exporters
// write as sentinel 0/1 integers where the underlying C# field is really a
// bool. Plain YAML carries no schema, so there is no principled way to
// recover this for an arbitrary field; this list covers the common
// properties this package's own tests and callers exercise.
var booleanFields = map[string]bool{
	"m_IsActive":         true,
	"m_Enabled":          true,
	"m_CastShadows":      true,
	"m_ReceiveShadows":   true,
	"m_ApplyRootMotion":  true,
	"m_Lightmapping":     true,
	"m_IsTrigger":        true,
}

var docStartRe = regexp.MustCompile(`^--- !u!(\d+) &(\S+)(?: (.*))?$`)

// Scan reads a Unity-tagged multi-document YAML stream and returns the
// parsed Document (spec §4.9). sourcePath is recorded on the result for
// diagnostics only.
func Scan(r io.Reader, sourcePath string, opts Options) (*core.Document, error) {
	const op = "yamlfmt.Scan"

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, core.NewError(core.KindIO, op, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, core.NewError(core.KindCorruptStream, op, fmt.Errorf("empty YAML document"))
	}

	doc := core.NewDocument(sourcePath, core.FormatYAML)

	chunks, err := splitDocuments(raw)
	if err != nil {
		return nil, core.NewError(core.KindCorruptStream, op, err)
	}

	for _, c := range chunks {
		class, err := parseChunk(c, opts)
		if err != nil {
			return nil, core.NewError(core.KindSchemaMismatch, op, err)
		}
		if class == nil {
			continue
		}
		if err := doc.AddEntry(class); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// docChunk is one `--- !u!<id> &<anchor>` document's raw directive line
// plus its body (the lines that follow, up to the next document start).
type docChunk struct {
	classID   int32
	anchor    string
	extra     string
	bodyLines []string
}

// splitDocuments walks raw line by line, grouping each `--- !u!...`
// directive with the body lines that follow it. Lines before the first
// directive (the `%YAML`/`%TAG` header) are discarded here; Emit
// regenerates them verbatim.
func splitDocuments(raw []byte) ([]docChunk, error) {
	var chunks []docChunk
	var cur *docChunk

	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := docStartRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				chunks = append(chunks, *cur)
			}
			var classID int64
			fmt.Sscanf(m[1], "%d", &classID)
			cur = &docChunk{classID: int32(classID), anchor: m[2], extra: m[3]}
			continue
		}
		if strings.HasPrefix(line, "%") {
			continue
		}
		if cur == nil {
			continue
		}
		cur.bodyLines = append(cur.bodyLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		chunks = append(chunks, *cur)
	}
	return chunks, nil
}

// parseChunk builds one core.Class from a docChunk. A chunk whose body is
// blank (Unity's "stripped" placeholder entries) yields a Class with no
// properties; extra is carried verbatim either way.
func parseChunk(c docChunk, opts Options) (*core.Class, error) {
	body := strings.TrimRight(strings.Join(c.bodyLines, "\n"), "\n")

	if strings.TrimSpace(body) == "" {
		// Unity's "stripped" placeholder: no mapping body at all, so the
		// class name falls back to the registry's id lookup.
		class := core.NewClass(c.classID, "", c.anchor)
		class.ExtraAnchorData = c.extra
		return class, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(body), &root); err != nil {
		return nil, fmt.Errorf("anchor %s: %w", c.anchor, err)
	}
	if len(root.Content) == 0 {
		class := core.NewClass(c.classID, "", c.anchor)
		class.ExtraAnchorData = c.extra
		return class, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode || len(mapping.Content) < 2 {
		return nil, fmt.Errorf("anchor %s: document body is not a single-key mapping", c.anchor)
	}

	className := mapping.Content[0].Value
	valueNode := mapping.Content[1]

	obj, err := nodeToObject(valueNode, opts)
	if err != nil {
		return nil, fmt.Errorf("anchor %s: %w", c.anchor, err)
	}

	// className comes straight from the YAML root key, so this entry's
	// class identity is known regardless of whether classID itself is
	// registered (spec §4.9).
	class := core.NewClass(c.classID, className, c.anchor)
	class.ExtraAnchorData = c.extra
	class.Properties = obj
	return class, nil
}

// nodeToObject converts a YAML mapping node into an insertion-ordered
// core.Object, preserving yaml.v3's Content order (key,value pairs in
// source order).
func nodeToObject(n *yaml.Node, opts Options) (*core.Object, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping, got kind %d at line %d", n.Kind, n.Line)
	}
	obj := core.NewObject()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		v, err := nodeToValue(n.Content[i+1], key, opts)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

// nodeToValue converts any YAML node into a core.Value. fieldName is the
// enclosing mapping key (empty for array elements), used only to decide
// sentinel-bool conversion.
func nodeToValue(n *yaml.Node, fieldName string, opts Options) (core.Value, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj, err := nodeToObject(n, opts)
		if err != nil {
			return core.Value{}, err
		}
		return core.Obj(obj), nil
	case yaml.SequenceNode:
		vals := make([]core.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToValue(c, "", opts)
			if err != nil {
				return core.Value{}, err
			}
			vals = append(vals, v)
		}
		return core.Array(vals), nil
	case yaml.ScalarNode:
		return scalarToValue(n, fieldName, opts), nil
	case yaml.AliasNode:
		return nodeToValue(n.Alias, fieldName, opts)
	default:
		return core.Null(), nil
	}
}

func scalarToValue(n *yaml.Node, fieldName string, opts Options) core.Value {
	var raw interface{}
	if err := n.Decode(&raw); err != nil {
		return core.String(n.Value)
	}
	switch x := raw.(type) {
	case nil:
		return core.Null()
	case bool:
		return core.Bool(x)
	case int:
		return maybeBool(int64(x), fieldName, opts)
	case int64:
		return maybeBool(x, fieldName, opts)
	case float64:
		return core.Float(x)
	case string:
		return core.String(x)
	default:
		return core.String(n.Value)
	}
}

// maybeBool converts i to a core.Bool when opts.PreserveTypes is set,
// fieldName names a known boolean property, and i is 0 or 1 (spec §4.9's
// sentinel-bool round trip).
func maybeBool(i int64, fieldName string, opts Options) core.Value {
	if opts.PreserveTypes && booleanFields[fieldName] && (i == 0 || i == 1) {
		return core.Bool(i != 0)
	}
	return core.Int(i)
}
