package huffman

import (
	"bytes"
	"fmt"
	"math"

	"github.com/icza/bitio"
)

// Packed는 패킹된 비트스트림. Payload는 8의 배수로 0 패딩되어 있다.
type Packed struct {
	Payload []byte
	BitLen  int // 패딩 전 실제 비트 수
	Padding int // 0-7
}

// Pack은 입력 순서대로 코드워드를 이어 붙이고 바이트 경계까지 0으로 채운다 (MSB-first).
func Pack(data []byte, cb Codebook) (*Packed, error) {
	var table [256][]chunk
	var lens [256]uint64
	var known [256]bool
	for sym, code := range cb {
		table[sym] = code.chunks()
		lens[sym] = uint64(code.Len())
		known[sym] = true
	}

	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	var bitLen uint64
	for i, c := range data {
		if !known[c] {
			return nil, fmt.Errorf("huffman: no codeword for symbol %#02x at offset %d", c, i)
		}
		if err := writeChunks(w, table[c]); err != nil {
			return nil, err
		}
		bitLen += lens[c]
		if bitLen > math.MaxUint32 {
			return nil, ErrInputTooLarge
		}
	}

	padding, err := w.Align()
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &Packed{
		Payload: buf.Bytes(),
		BitLen:  int(bitLen),
		Padding: int(padding),
	}, nil
}
