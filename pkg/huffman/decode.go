package huffman

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

/*** ---------- 코드워드 → 심볼 (트라이) ---------- ***/

// 누적 비트가 코드워드와 정확히 일치하면 리프에 닿는다.
// 트라이 깊이는 가장 긴 코드워드를 넘지 않으므로 손상된 입력에도 누적기가 무한히 자라지 않는다.
type trieNode struct {
	child [2]*trieNode
	sym   byte
	leaf  bool
}

func newDecodeTrie(cb Codebook) (*trieNode, error) {
	root := &trieNode{}
	for _, sym := range cb.Symbols() {
		code := cb[sym]
		if code.Len() == 0 {
			return nil, fmt.Errorf("%w: empty codeword for symbol %#02x", ErrInvalidContainer, sym)
		}
		n := root
		for i := 0; i < code.Len(); i++ {
			if n.leaf {
				return nil, fmt.Errorf("%w: codewords are not prefix-free (symbol %#02x)", ErrInvalidContainer, sym)
			}
			bit := code.At(i)
			if n.child[bit] == nil {
				n.child[bit] = &trieNode{}
			}
			n = n.child[bit]
		}
		if n.leaf || n.child[0] != nil || n.child[1] != nil {
			return nil, fmt.Errorf("%w: codewords are not prefix-free (symbol %#02x)", ErrInvalidContainer, sym)
		}
		n.leaf = true
		n.sym = sym
	}
	return root, nil
}

/*** ---------- 디코딩 ---------- ***/

// DecodeBits는 payload의 앞쪽 bitLen 비트를 코드북으로 복원한다. 나머지 비트(패딩)는 무시한다.
func DecodeBits(payload []byte, bitLen int, cb Codebook) ([]byte, error) {
	if bitLen < 0 || bitLen > len(payload)*8 {
		return nil, fmt.Errorf("%w: %d bits declared, payload holds %d", ErrTruncatedContainer, bitLen, len(payload)*8)
	}
	root, err := newDecodeTrie(cb)
	if err != nil {
		return nil, err
	}

	r := bitio.NewReader(bytes.NewReader(payload))
	out := make([]byte, 0, len(payload))
	n := root
	start := 0
	for pos := 0; pos < bitLen; pos++ {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("%w: bit %d: %v", ErrTruncatedContainer, pos, err)
		}
		if bit {
			n = n.child[1]
		} else {
			n = n.child[0]
		}
		if n == nil {
			return nil, fmt.Errorf("%w: no codeword matches bits at offset %d (decoded %d bytes)", ErrUnknownCode, start, len(out))
		}
		if n.leaf {
			out = append(out, n.sym)
			n = root
			start = pos + 1
		}
	}
	if n != root {
		return nil, fmt.Errorf("%w: stream ends inside a codeword at offset %d (decoded %d bytes)", ErrUnknownCode, start, len(out))
	}
	return out, nil
}
