// Package main provides the memmap snapshot inspector CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/memmap"
)

const version = "v0.1.0-dev"

func usage() {
	fmt.Println("memmap - memory-mapped tensor storage")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  inspect <file>    Show the geometry of a snapshot file")
	fmt.Println("  version           Show version")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("memmap %s\n", version)
	case "inspect":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "inspect: snapshot file required")
			os.Exit(1)
		}
		if err := inspect(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func inspect(path string) error {
	m, err := memmap.LoadSnapshot(path)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Printf("shape:    %v\n", m.Shape())
	fmt.Printf("dtype:    %s\n", m.DType())
	fmt.Printf("device:   %s\n", m.Device())
	fmt.Printf("elements: %d\n", m.NumElements())
	fmt.Printf("bytes:    %d\n", m.ByteSize())
	return nil
}
