// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command amberfmt parses an AmberScript (.amber) file and prints a
// one-line summary of the resulting script: shader, buffer, pipeline and
// command counts. A syntax or semantic error is reported as the single
// "<line>: <message>" diagnostic the parser produced.
//
// The command is headless and does no GPU work; it exists to exercise
// amber.Parse end to end against real script files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gogpu/amber"
	"github.com/gogpu/amber/script"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("FATAL: usage: amberfmt <script.amber>")
	}
	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	fmt.Printf("Parsing %s... ", path)
	s, err := amber.Parse(string(source), amber.Options{})
	if err != nil {
		fmt.Println("FAIL")
		return fmt.Errorf("%w", err)
	}
	fmt.Println("OK")

	summarize(s)
	return nil
}

func summarize(s *script.Script) {
	fmt.Printf("shaders=%d buffers=%d samplers=%d structs=%d pipelines=%d commands=%d blas=%d tlas=%d\n",
		s.Shaders.Len(), s.Buffers.Len(), s.Samplers.Len(), s.Structs.Len(),
		s.Pipelines.Len(), len(s.Commands), s.BLASes.Len(), s.TLASes.Len())
}
