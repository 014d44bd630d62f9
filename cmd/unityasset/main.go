// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command unityasset is the CLI front-end spec §6 describes as an
// external collaborator: parse-yaml and extract subcommands built on the
// library's container/serialized/yamlfmt/batch/extract packages, the
// same way the teacher's cmd/pedumper.go is a thin Cobra shell around
// the saferwall/pe library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes (spec §6).
const (
	exitOK                = 0
	exitMalformedInput    = 2
	exitUnsupportedFormat = 3
	exitIOError           = 4
)

func main() {
	root := &cobra.Command{
		Use:   "unityasset",
		Short: "Parse, validate, and extract Unity asset files",
		Long:  "unityasset parses Unity's text-YAML and AssetBundle/SerializedFile formats without running a game engine.",
	}

	root.AddCommand(newParseYAMLCmd())
	root.AddCommand(newExtractCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
