package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rVladislavrr/codes/pkg/archiveapi"
	"github.com/rVladislavrr/codes/pkg/huffman"
)

func main() {
	showTree := flag.Bool("tree", false, "print the huffman tree and codebook")
	remote := flag.String("remote", "", "upload to an archive server instead of writing a .bin file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-tree] [-remote URL] FILE\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *remote, *showTree); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var errSameOutput = errors.New("output would overwrite input")

func run(path, remote string, showTree bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if remote != "" {
		a, err := archiveapi.New(remote).Upload(context.Background(), filepath.Base(path), data)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s as %s\n", path, a.ID)
		printStats(a.Stats)
		return nil
	}

	out := huffman.CompressedName(path)
	if filepath.Clean(out) == filepath.Clean(path) {
		return fmt.Errorf("%s: %w", path, errSameOutput)
	}
	enc, err := huffman.EncodeDetailed(data, huffman.TagFor(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(out, enc.Container, 0o644); err != nil {
		return err
	}
	fmt.Printf("compressed %s -> %s\n", path, out)

	if showTree {
		if err := enc.Tree.Dump(os.Stdout); err != nil {
			return err
		}
		for _, sym := range enc.Codebook.Symbols() {
			fmt.Printf("%q: %s\n", sym, enc.Codebook[sym])
		}
	}
	printStats(enc.Stats)
	return nil
}

func printStats(s huffman.Stats) {
	fmt.Printf("original size:    %d bytes\n", s.OriginalBytes)
	fmt.Printf("compressed size:  %d bytes\n", s.ContainerBytes)
	fmt.Printf("encoded bits:     %d (fixed-width %d)\n", s.EncodedBits, s.FixedWidthBits)
	fmt.Printf("ratio:            %.2f\n", s.Ratio)
	fmt.Printf("efficiency:       %.2f%%\n", s.Efficiency)
	fmt.Printf("elapsed:          %s\n", s.Elapsed)
}
