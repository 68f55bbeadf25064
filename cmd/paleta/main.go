// Paleta - a dominant-colour palette extractor
//
// Paleta extracts visually distinct dominant colours from images and
// hands them to host applications as an ordered palette.
//
// Copyright (c) 2026 Paleta contributors
// Licensed under the MIT License
package main

import (
	"github.com/paleta-go/paleta/internal/cli"
)

func main() {
	cli.Execute()
}
