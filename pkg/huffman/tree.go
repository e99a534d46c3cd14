package huffman

import (
	"fmt"
	"io"
)

/*** ---------- 데이터 구조 ---------- ***/

// Node는 허프만 트리의 노드. 리프는 심볼을, 내부 노드는 두 자식을 가진다.
type Node struct {
	sym         byte
	freq        uint64
	seq         int // 동률 처리용 생성 순번
	left, right *Node
}

func (n *Node) IsLeaf() bool { return n.left == nil && n.right == nil }
func (n *Node) Symbol() byte { return n.sym }
func (n *Node) Freq() uint64 { return n.freq }
func (n *Node) Left() *Node  { return n.left }
func (n *Node) Right() *Node { return n.right }

type Tree struct {
	root *Node
}

func (t *Tree) Root() *Node { return t.root }

/*** ---------- MinHeap (빈도 → 생성 순번) ---------- ***/

// 동률이면 먼저 만들어진 노드가 앞선다.
// 리프는 심볼 오름차순으로 순번을 받고, 병합 노드는 그 뒤 순번을 받는다.
type minHeap struct {
	arr []*Node
}

func (h *minHeap) size() int { return len(h.arr) }

func less(a, b *Node) bool {
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return a.seq < b.seq
}

func (h *minHeap) push(n *Node) {
	h.arr = append(h.arr, n)
	h.up(len(h.arr) - 1)
}

func (h *minHeap) pop() *Node {
	last := h.size() - 1
	if last < 0 {
		return nil
	}
	out := h.arr[0]
	h.arr[0] = h.arr[last]
	h.arr[last] = nil
	h.arr = h.arr[:last]
	h.down(0)
	return out
}

func (h *minHeap) up(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !less(h.arr[i], h.arr[p]) {
			return
		}
		h.arr[p], h.arr[i] = h.arr[i], h.arr[p]
		i = p
	}
}

func (h *minHeap) down(i int) {
	n := h.size()
	for {
		smallest := i
		for _, c := range [2]int{2*i + 1, 2*i + 2} {
			if c < n && less(h.arr[c], h.arr[smallest]) {
				smallest = c
			}
		}
		if smallest == i {
			return
		}
		h.arr[i], h.arr[smallest] = h.arr[smallest], h.arr[i]
		i = smallest
	}
}

/*** ---------- 트리 구성 ---------- ***/

// BuildTree는 빈도 테이블로 허프만 트리를 만든다.
// 먼저 꺼낸 노드가 left(0), 두 번째가 right(1).
// 심볼이 하나뿐이면 리프를 내부 노드 왼쪽에 감싸서 코드워드가 "0"이 되게 한다.
func BuildTree(ft *FrequencyTable) (*Tree, error) {
	h := &minHeap{}
	seq := 0
	for c, f := range ft {
		if f == 0 {
			continue
		}
		h.push(&Node{sym: byte(c), freq: f, seq: seq})
		seq++
	}

	switch h.size() {
	case 0:
		return nil, ErrEmptyInput
	case 1:
		leaf := h.pop()
		return &Tree{root: &Node{freq: leaf.freq, seq: seq, left: leaf}}, nil
	}

	for h.size() > 1 {
		a := h.pop()
		b := h.pop()
		h.push(&Node{freq: a.freq + b.freq, seq: seq, left: a, right: b})
		seq++
	}
	return &Tree{root: h.pop()}, nil
}

/*** ---------- 트리 출력 ---------- ***/

// Dump는 트리를 들여쓰기 형태로 출력한다. 리프는 └─(심볼:빈도), 내부 노드는 ├─(빈도).
func (t *Tree) Dump(w io.Writer) error {
	type frame struct {
		n      *Node
		prefix string
	}
	stack := []frame{{t.root, ""}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var err error
		if f.n.IsLeaf() {
			_, err = fmt.Fprintf(w, "%s└─(%q:%d)\n", f.prefix, f.n.sym, f.n.freq)
		} else {
			_, err = fmt.Fprintf(w, "%s├─(%d)\n", f.prefix, f.n.freq)
		}
		if err != nil {
			return err
		}

		// 왼쪽이 먼저 출력되도록 오른쪽부터 쌓는다
		if f.n.right != nil {
			stack = append(stack, frame{f.n.right, f.prefix + "   "})
		}
		if f.n.left != nil {
			stack = append(stack, frame{f.n.left, f.prefix + "   "})
		}
	}
	return nil
}
