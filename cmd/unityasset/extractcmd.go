// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saferwall/unityasset/core"
	"github.com/saferwall/unityasset/extract"
	"github.com/saferwall/unityasset/internal/logx"
	"github.com/saferwall/unityasset/yamlfmt"
)

func newExtractCmd() *cobra.Command {
	var (
		input     string
		outputDir string
		types     []string
		imageExt  string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a Unity asset file's entries as standalone documents (or decode textures to images)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logx.NewHelper(logx.NewFilter(logx.NewStdLogger(os.Stderr), logx.FilterLevel(logx.LevelWarn)))

			doc, err := loadDocument(input, yamlfmt.Options{}, logger)
			if err != nil {
				return err
			}

			paths, err := extract.ToDirectory(doc, outputDir, extract.Options{Types: types})
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}

			wantTextures := len(types) == 0
			for _, t := range types {
				if t == "Texture2D" {
					wantTextures = true
				}
			}
			if wantTextures {
				for _, class := range doc.FilterByClass("Texture2D") {
					if err := extractTexture(class, outputDir, imageExt, logger); err != nil {
						fmt.Fprintf(os.Stderr, "warning: texture %s: %v\n", class.Anchor, err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to the file to extract")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory to write extracted documents/images into")
	cmd.Flags().StringSliceVar(&types, "types", nil, "restrict extraction to these class names (default: all)")
	cmd.Flags().StringVar(&imageExt, "image-format", "png", "image format for decoded textures: png|jpg|bmp|tiff")
	cmd.MarkFlagRequired("input")

	return cmd
}

// extractTexture decodes class (expected to be a Texture2D entry) and
// writes it to outputDir, named after the texture's m_Name property.
// Streaming textures (spec §3's StreamInfo) are not resolvable from a
// single input file and are skipped with a warning — the CLI has no
// sibling-.resS discovery of its own (spec §9 leaves that to the
// caller; extracting from a directory of files, where the .resS sits
// next to its .assets file, is left as a follow-up).
func extractTexture(class *core.Class, outputDir, imageExt string, logger *logx.Helper) error {
	img, err := extract.DecodeTexture(class, nil)
	if err != nil {
		return err
	}

	name, ok := class.Name()
	if !ok || name == "" {
		name = "Texture2D_" + class.Anchor
	}
	ext := strings.TrimPrefix(strings.ToLower(imageExt), ".")
	path := filepath.Join(outputDir, fmt.Sprintf("%s.%s", name, ext))

	if err := extract.WriteImage(img, path); err != nil {
		return err
	}
	logger.Infof("wrote %s", path)
	return nil
}
