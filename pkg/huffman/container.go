package huffman

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

/*
컨테이너 레이아웃 (멀티바이트 정수는 빅엔디언)

	[1]             tag_length
	[tag_length]    tag
	[4]             symbol_count
	symbol_count 회 반복:
	  [1]           symbol
	  [1]           codeword_bit_length
	  [ceil(len/8)] codeword (오른쪽 정렬 정수)
	[1]             padding_length (0-7)
	[4]             true_bit_length
	[나머지]         payload
*/

// Container는 자기 기술적인 압축 파일 한 개.
type Container struct {
	Tag      string
	Codebook Codebook
	Padding  int
	BitLen   int
	Payload  []byte
}

func checkTag(tag string) error {
	if len(tag) > maxTagLen {
		return ErrTagTooLong
	}
	if !utf8.ValidString(tag) {
		return ErrExtensionDecode
	}
	return nil
}

const maxTagLen = 0xff

// MarshalBinary는 컨테이너 전체를 메모리에서 만든다. 실패하면 아무것도 돌려주지 않는다.
func (c *Container) MarshalBinary() ([]byte, error) {
	if err := checkTag(c.Tag); err != nil {
		return nil, err
	}
	if len(c.Codebook) == 0 {
		return nil, fmt.Errorf("%w: empty codebook", ErrInvalidContainer)
	}
	if c.Padding < 0 || c.Padding > 7 {
		return nil, fmt.Errorf("%w: padding %d", ErrInvalidContainer, c.Padding)
	}
	if uint64(c.BitLen) > 0xffffffff {
		return nil, ErrInputTooLarge
	}

	var buf bytes.Buffer
	buf.Grow(1 + len(c.Tag) + 4 + len(c.Codebook)*3 + 5 + len(c.Payload))

	buf.WriteByte(byte(len(c.Tag)))
	buf.WriteString(c.Tag)

	writeU32(&buf, uint32(len(c.Codebook)))
	for _, sym := range c.Codebook.Symbols() {
		code := c.Codebook[sym]
		if code.Len() == 0 || code.Len() > 0xff {
			return nil, fmt.Errorf("%w: codeword length %d for symbol %#02x", ErrInvalidContainer, code.Len(), sym)
		}
		buf.WriteByte(sym)
		buf.WriteByte(byte(code.Len()))
		buf.Write(code.rightAligned())
	}

	buf.WriteByte(byte(c.Padding))
	writeU32(&buf, uint32(c.BitLen))
	buf.Write(c.Payload)
	return buf.Bytes(), nil
}

/*** ---------- 빅엔디언 읽기/쓰기 ---------- ***/

func writeU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func readN(r io.Reader, n int, field string) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %s", ErrTruncatedContainer, field)
		}
		return nil, err
	}
	return b, nil
}

func readU8(r io.Reader, field string) (byte, error) {
	b, err := readN(r, 1, field)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func readU32(r io.Reader, field string) (uint32, error) {
	b, err := readN(r, 4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

/*** ---------- 파싱 ---------- ***/

// ParseContainer는 MarshalBinary의 역.
func ParseContainer(b []byte) (*Container, error) {
	r := bytes.NewReader(b)

	tagLen, err := readU8(r, "tag length")
	if err != nil {
		return nil, err
	}
	tag, err := readN(r, int(tagLen), "tag")
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(tag) {
		return nil, ErrExtensionDecode
	}

	cb, err := readSymbolTable(r)
	if err != nil {
		return nil, err
	}

	padding, err := readU8(r, "padding length")
	if err != nil {
		return nil, err
	}
	if padding > 7 {
		return nil, fmt.Errorf("%w: padding %d", ErrInvalidContainer, padding)
	}
	bitLen, err := readU32(r, "bit length")
	if err != nil {
		return nil, err
	}
	// Encode는 빈 입력을 거부하므로 0비트 컨테이너는 만들어지지 않는다.
	if bitLen == 0 {
		return nil, fmt.Errorf("%w: zero bit length", ErrInvalidContainer)
	}

	payload := b[len(b)-r.Len():]
	need := (uint64(bitLen) + 7) / 8
	switch {
	case uint64(len(payload)) < need:
		return nil, fmt.Errorf("%w: payload has %d bytes, need %d", ErrTruncatedContainer, len(payload), need)
	case uint64(len(payload)) > need:
		return nil, fmt.Errorf("%w: %d trailing bytes after payload", ErrInvalidContainer, uint64(len(payload))-need)
	case int(padding) != (8-int(bitLen%8))%8:
		return nil, fmt.Errorf("%w: padding %d does not match bit length %d", ErrInvalidContainer, padding, bitLen)
	}

	return &Container{
		Tag:      string(tag),
		Codebook: cb,
		Padding:  int(padding),
		BitLen:   int(bitLen),
		Payload:  payload,
	}, nil
}

func readSymbolTable(r io.Reader) (Codebook, error) {
	count, err := readU32(r, "symbol count")
	if err != nil {
		return nil, err
	}
	if count == 0 || count > 256 {
		return nil, fmt.Errorf("%w: symbol count %d", ErrInvalidContainer, count)
	}

	cb := make(Codebook, count)
	for i := uint32(0); i < count; i++ {
		sym, err := readU8(r, "symbol")
		if err != nil {
			return nil, err
		}
		n, err := readU8(r, "codeword length")
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: empty codeword for symbol %#02x", ErrInvalidContainer, sym)
		}
		packed, err := readN(r, (int(n)+7)/8, "codeword")
		if err != nil {
			return nil, err
		}
		if _, dup := cb[sym]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %#02x", ErrInvalidContainer, sym)
		}
		code, ok := bitsFromRightAligned(packed, int(n))
		if !ok {
			return nil, fmt.Errorf("%w: codeword for symbol %#02x wider than %d bits", ErrInvalidContainer, sym, n)
		}
		cb[sym] = code
	}
	return cb, nil
}
