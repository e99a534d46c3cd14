package model

import (
	"time"

	"github.com/rVladislavrr/codes/pkg/huffman"
)

type Archive struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Tag            string        `json:"tag"`
	Checksum       string        `json:"checksum"` // 원본의 xxhash64
	OriginalSize   int           `json:"original_size"`
	CompressedSize int           `json:"compressed_size"`
	Stats          huffman.Stats `json:"stats"`
	CreatedAt      time.Time     `json:"created_at"`

	Container []byte `json:"-"`
}
