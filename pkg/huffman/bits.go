package huffman

import (
	"bytes"
	"strings"

	"github.com/icza/bitio"
)

// Bits는 코드워드 하나. MSB-first로 채워지는 가변 길이 비트열.
type Bits struct {
	buf []byte
	n   int
}

func (b *Bits) Len() int { return b.n }

func (b *Bits) At(i int) byte {
	return (b.buf[i/8] >> (7 - uint(i%8))) & 1
}

func (b *Bits) AppendBit(bit byte) {
	if b.n%8 == 0 {
		b.buf = append(b.buf, 0)
	}
	if bit&1 == 1 {
		b.buf[b.n/8] |= 1 << (7 - uint(b.n%8))
	}
	b.n++
}

func (b *Bits) Clone() *Bits {
	return &Bits{buf: append([]byte(nil), b.buf...), n: b.n}
}

func (b *Bits) Equal(o *Bits) bool {
	if b.n != o.n {
		return false
	}
	for i := 0; i < b.n; i++ {
		if b.At(i) != o.At(i) {
			return false
		}
	}
	return true
}

func (b *Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		sb.WriteByte('0' + b.At(i))
	}
	return sb.String()
}

/*** ---------- bitio 연동 ---------- ***/

// chunk는 WriteBits 한 번에 넘길 수 있는 조각 (최대 64비트).
type chunk struct {
	v uint64
	n uint8
}

// chunks는 코드워드를 앞에서부터 64비트 이하 조각으로 자른다. 코드워드는 최대 255비트.
func (b *Bits) chunks() []chunk {
	out := make([]chunk, 0, (b.n+63)/64)
	for i := 0; i < b.n; i += 64 {
		k := min(64, b.n-i)
		var v uint64
		for j := 0; j < k; j++ {
			v = v<<1 | uint64(b.At(i+j))
		}
		out = append(out, chunk{v: v, n: uint8(k)})
	}
	return out
}

func writeChunks(w *bitio.Writer, cs []chunk) error {
	for _, c := range cs {
		if err := w.WriteBits(c.v, c.n); err != nil {
			return err
		}
	}
	return nil
}

// rightAligned는 비트열을 ceil(n/8) 바이트의 빅엔디언 정수로 담는다 (앞쪽을 0으로 채움).
func (b *Bits) rightAligned() []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	if shift := (8 - b.n%8) % 8; shift > 0 {
		w.WriteBits(0, uint8(shift))
	}
	writeChunks(w, b.chunks())
	w.Close()
	return buf.Bytes()
}

// bitsFromRightAligned는 rightAligned의 역. 길이를 넘는 상위 비트가 있으면 false.
func bitsFromRightAligned(p []byte, n int) (*Bits, bool) {
	r := bitio.NewReader(bytes.NewReader(p))
	if shift := len(p)*8 - n; shift > 0 {
		lead, err := r.ReadBits(uint8(shift))
		if err != nil || lead != 0 {
			return nil, false
		}
	}
	b := &Bits{}
	for i := 0; i < n; i++ {
		bit, err := r.ReadBool()
		if err != nil {
			return nil, false
		}
		if bit {
			b.AppendBit(1)
		} else {
			b.AppendBit(0)
		}
	}
	return b, true
}
