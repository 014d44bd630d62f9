// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package yamlfmt

import (
	"bufio"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/saferwall/unityasset/core"
)

const header = "%YAML 1.1\n%TAG !u! tag:unity3d.com,2011:\n"

// Emit writes d back out in Unity's YAML dialect (spec §4.10): one
// `%YAML`/`%TAG` header, then per-entry `--- !u!<id> &<anchor>[extra]`
// directives each followed by a single-key mapping (class name -> its
// properties, insertion order preserved). Emit(Scan(r)) keeps entries,
// class ids, anchors and property order; the body text is regenerated
// by yaml.v3 in block style, so comments, flow style and original
// scalar spelling are not reproduced.
func Emit(w io.Writer, d *core.Document, opts Options) error {
	const op = "yamlfmt.Emit"

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header); err != nil {
		return core.NewError(core.KindIO, op, err)
	}

	for _, class := range d.Entries() {
		if err := emitEntry(bw, class, opts); err != nil {
			return core.NewError(core.KindIO, op, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return core.NewError(core.KindIO, op, err)
	}
	return nil
}

func emitEntry(bw *bufio.Writer, class *core.Class, opts Options) error {
	directive := fmt.Sprintf("--- !u!%d &%s", class.ClassID, class.Anchor)
	if class.ExtraAnchorData != "" {
		directive += " " + class.ExtraAnchorData
	}
	if _, err := bw.WriteString(directive + "\n"); err != nil {
		return err
	}

	if class.Properties == nil || class.Properties.Len() == 0 {
		// Unity's "stripped" placeholder entries carry no body at all.
		return nil
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	classKey := &yaml.Node{Kind: yaml.ScalarNode, Value: class.ClassName}
	classVal := objectToNode(class.Properties, opts)
	root.Content = []*yaml.Node{classKey, classVal}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	enc := yaml.NewEncoder(bw)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// objectToNode converts a core.Object into a yaml.v3 mapping node with
// Content in the object's own insertion order.
func objectToNode(o *core.Object, opts Options) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	o.Range(func(key string, v core.Value) bool {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			valueToNode(v, key, opts))
		return true
	})
	return n
}

func valueToNode(v core.Value, fieldName string, opts Options) *yaml.Node {
	switch v.Kind {
	case core.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case core.KindBool:
		b, _ := v.AsBool()
		if !opts.PreserveTypes && booleanFields[fieldName] {
			return intScalar(boolToInt(b))
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: boolString(b)}
	case core.KindInt:
		i, _ := v.AsInt()
		return intScalar(i)
	case core.KindFloat:
		f, _ := v.AsFloat()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: fmt.Sprintf("%g", f)}
	case core.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case core.KindArray:
		arr, _ := v.AsArray()
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, el := range arr {
			n.Content = append(n.Content, valueToNode(el, "", opts))
		}
		return n
	case core.KindObject:
		obj, _ := v.AsObject()
		return objectToNode(obj, opts)
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func intScalar(i int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", i)}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
