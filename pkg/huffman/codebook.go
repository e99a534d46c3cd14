package huffman

import "sort"

// Codebook는 심볼 → 코드워드. 호출마다 새로 만든다.
type Codebook map[byte]*Bits

// BuildCodebook은 트리를 명시적 스택으로 깊이 우선 순회하며 left=0, right=1을 붙인다.
func BuildCodebook(t *Tree) Codebook {
	cb := make(Codebook)

	type frame struct {
		n    *Node
		path *Bits
	}
	stack := []frame{{t.root, &Bits{}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.n.IsLeaf() {
			cb[f.n.sym] = f.path
			continue
		}
		if f.n.right != nil {
			p := f.path.Clone()
			p.AppendBit(1)
			stack = append(stack, frame{f.n.right, p})
		}
		if f.n.left != nil {
			p := f.path.Clone()
			p.AppendBit(0)
			stack = append(stack, frame{f.n.left, p})
		}
	}
	return cb
}

// Symbols는 코드북의 심볼을 오름차순으로 돌려준다 (직렬화 순서).
func (cb Codebook) Symbols() []byte {
	out := make([]byte, 0, len(cb))
	for c := range cb {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EncodedBits는 주어진 빈도로 인코딩했을 때의 총 비트 수.
func (cb Codebook) EncodedBits(ft *FrequencyTable) uint64 {
	var total uint64
	for c, code := range cb {
		total += ft[c] * uint64(code.Len())
	}
	return total
}
