package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rVladislavrr/codes/pkg/archiveapi"
	"github.com/rVladislavrr/codes/pkg/huffman"
)

func main() {
	remote := flag.String("remote", "", "fetch the archive with id ARG from an archive server")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s FILE.bin | -remote URL ID\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	if *remote != "" {
		err = fetch(*remote, flag.Arg(0))
	} else {
		err = decompress(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func decompress(path string) error {
	container, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data, tag, err := huffman.Decode(container)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out := huffman.DecompressedName(path, tag)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("decompressed %s -> %s (%d bytes)\n", path, out, len(data))
	return nil
}

func fetch(remote, id string) error {
	ctx := context.Background()
	c := archiveapi.New(remote)

	a, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	data, tag, err := c.Content(ctx, id)
	if err != nil {
		return err
	}
	out := huffman.DecompressedName(huffman.CompressedName(a.Name), tag)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("fetched %s -> %s (%d bytes)\n", id, out, len(data))
	return nil
}
