// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saferwall/unityasset/batch"
	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/internal/logx"
	"github.com/saferwall/unityasset/yamlfmt"
)

func newParseYAMLCmd() *cobra.Command {
	var (
		input         string
		format        string
		concurrency   int
		preserveTypes bool
	)

	cmd := &cobra.Command{
		Use:   "parse-yaml",
		Short: "Parse a Unity text-asset file (or a directory of them) and list its entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logx.NewHelper(logx.NewFilter(logx.NewStdLogger(os.Stderr), logx.FilterLevel(logx.LevelWarn)))
			yamlOpts := yamlfmt.Options{PreserveTypes: preserveTypes}

			info, err := os.Stat(input)
			if err != nil {
				return core.NewError(core.KindIO, "parse-yaml", err)
			}

			if !info.IsDir() {
				doc, err := loadDocument(input, yamlOpts, logger)
				if err != nil {
					return err
				}
				return printDocument(doc, format)
			}

			results, progress, err := batch.ParseDir(context.Background(), input, batch.Options{
				Concurrency: concurrency,
				Logger:      logger,
				YAML:        yamlOpts,
			})
			if err != nil {
				return err
			}
			go func() {
				for p := range progress {
					logger.Debugf("%s: %s (%d bytes, %d objects)", p.Path, p.Stage, p.BytesLoaded, p.ObjectsProcessed)
				}
			}()

			var failed int
			for r := range results {
				if r.Err != nil {
					fmt.Fprintf(os.Stderr, "warning: %s: %v\n", r.Path, r.Err)
					failed++
					continue
				}
				if err := printDocument(r.Doc, format); err != nil {
					return err
				}
			}
			if failed > 0 {
				fmt.Fprintf(os.Stderr, "%d file(s) failed to parse\n", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to a file or directory to parse")
	cmd.Flags().StringVarP(&format, "format", "f", "summary", "output format: summary|detailed|json")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "bounded worker count for directory input (0 = CPU count)")
	cmd.Flags().BoolVar(&preserveTypes, "preserve-types", false, "decode sentinel 0/1 integers as booleans")
	cmd.MarkFlagRequired("input")

	return cmd
}

// printDocument renders doc per the requested format (spec §6's `-f
// {summary|detailed|json}`).
func printDocument(doc *core.Document, format string) error {
	switch format {
	case "json":
		return printDocumentJSON(doc)
	case "detailed":
		return printDocumentDetailed(doc)
	default:
		return printDocumentSummary(doc)
	}
}

func printDocumentSummary(doc *core.Document) error {
	fmt.Printf("%s (%s, %d entries)\n", doc.SourcePath, doc.Format, doc.Len())
	for _, c := range doc.Entries() {
		name, _ := c.Name()
		fmt.Printf("  %s &%s %s\n", c.ClassName, c.Anchor, name)
	}
	return nil
}

func printDocumentDetailed(doc *core.Document) error {
	fmt.Printf("%s (%s, %d entries)\n", doc.SourcePath, doc.Format, doc.Len())
	for _, c := range doc.Entries() {
		fmt.Printf("  %s &%s\n", c.ClassName, c.Anchor)
		for _, key := range c.PropertyNames() {
			v, _ := c.Get(key)
			fmt.Printf("    %s: %s\n", key, v)
		}
	}
	return nil
}

func printDocumentJSON(doc *core.Document) error {
	type entry struct {
		ClassID   int32  `json:"classId"`
		ClassName string `json:"className"`
		Anchor    string `json:"anchor"`
		Name      string `json:"name,omitempty"`
	}
	out := struct {
		SourcePath string  `json:"sourcePath"`
		Format     string  `json:"format"`
		Entries    []entry `json:"entries"`
	}{
		SourcePath: doc.SourcePath,
		Format:     doc.Format.String(),
	}
	for _, c := range doc.Entries() {
		name, _ := c.Name()
		out.Entries = append(out.Entries, entry{
			ClassID:   c.ClassID,
			ClassName: c.ClassName,
			Anchor:    c.Anchor,
			Name:      name,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
