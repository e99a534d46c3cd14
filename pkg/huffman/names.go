package huffman

import (
	"path/filepath"
	"strings"
)

const Ext = ".bin"

// TagFor는 경로의 확장자를 점 없이 돌려준다. "report.txt" → "txt".
func TagFor(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// CompressedName: "dir/report.txt" → "dir/report.bin".
func CompressedName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + Ext
}

// DecompressedName: "dir/report.bin" + "txt" → "dir/report_decompressed.txt".
func DecompressedName(path, tag string) string {
	base := strings.TrimSuffix(path, Ext) + "_decompressed"
	if tag == "" {
		return base
	}
	return base + "." + tag
}
