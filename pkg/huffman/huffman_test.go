package huffman

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		tag  string
	}{
		{"single byte", []byte{0x00}, ""},
		{"single symbol", []byte("AAAA"), "txt"},
		{"two symbols", []byte("ABABABAB"), "dat"},
		{"sample", []byte("AAAAABBBCC"), "txt"},
		{"sentence", []byte("The quick brown fox jumps over the lazy dog."), "md"},
		{"all bytes", allBytes(), "raw"},
		{"unicode tag", []byte("привет, мир"), "тхт"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := Encode(tt.data, tt.tag)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			data, tag, err := Decode(container)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(data, tt.data) {
				t.Errorf("data mismatch: got %q, want %q", data, tt.data)
			}
			if tag != tt.tag {
				t.Errorf("tag mismatch: got %q, want %q", tag, tt.tag)
			}
		})
	}
}

func TestRoundtripRandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))

	for trial := 0; trial < 100; trial++ {
		alphabet := 1 + rng.Intn(256)
		data := make([]byte, 1+rng.Intn(2000))
		for i := range data {
			// skewed distribution
			data[i] = byte(rng.Intn(1+rng.Intn(alphabet)) % 256)
		}

		container, err := Encode(data, "bin")
		if err != nil {
			t.Fatalf("Trial %d: Encode failed: %v", trial, err)
		}
		got, _, err := Decode(container)
		if err != nil {
			t.Fatalf("Trial %d: Decode failed: %v", trial, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("Trial %d: roundtrip mismatch", trial)
		}
	}
}

func TestSampleFrequenciesAndCodes(t *testing.T) {
	data := []byte("AAAAABBBCC")

	ft, err := CountFrequencies(data)
	if err != nil {
		t.Fatalf("CountFrequencies failed: %v", err)
	}
	if ft['A'] != 5 || ft['B'] != 3 || ft['C'] != 2 {
		t.Errorf("unexpected frequencies: A=%d B=%d C=%d", ft['A'], ft['B'], ft['C'])
	}
	if ft.Distinct() != 3 || ft.Total() != 10 {
		t.Errorf("Distinct=%d Total=%d, expected 3 and 10", ft.Distinct(), ft.Total())
	}

	tree, err := BuildTree(ft)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	cb := BuildCodebook(tree)

	if cb['A'].Len() > cb['C'].Len() {
		t.Errorf("code for A (%s) is longer than code for C (%s)", cb['A'], cb['C'])
	}

	// C(2) and B(3) merge first; A(5) ties with that merge and wins on sequence.
	want := map[byte]string{'A': "0", 'C': "10", 'B': "11"}
	for sym, code := range want {
		if got := cb[sym].String(); got != code {
			t.Errorf("code for %q = %s, expected %s", sym, got, code)
		}
	}
}

func TestContainerLayout(t *testing.T) {
	container, err := Encode([]byte("AAAAABBBCC"), "txt")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []byte{
		// tag
		0x03, 't', 'x', 't',
		// symbol table: A = 0, B = 11, C = 10
		0x00, 0x00, 0x00, 0x03,
		'A', 0x01, 0x00,
		'B', 0x02, 0x03,
		'C', 0x02, 0x02,
		// padding, 15 bits
		0x01,
		0x00, 0x00, 0x00, 0x0f,
		// 00000 111111 1010 + 0
		0x07, 0xf4,
	}
	if !bytes.Equal(container, want) {
		t.Errorf("container mismatch:\n got % x\nwant % x", container, want)
	}
}

func bitsOf(s string) *Bits {
	b := &Bits{}
	for _, c := range s {
		b.AppendBit(byte(c - '0'))
	}
	return b
}

// 64비트를 넘는 코드워드는 WriteBits 여러 번으로 나뉘어 써진다.
func TestLongCodewords(t *testing.T) {
	cb := Codebook{
		'A': bitsOf("0"),
		'B': bitsOf("1" + strings.Repeat("0", 99)),
		'C': bitsOf("1" + strings.Repeat("0", 98) + "1"),
	}
	data := []byte("BAC")

	packed, err := Pack(data, cb)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if packed.BitLen != 201 || packed.Padding != 7 || len(packed.Payload) != 26 {
		t.Fatalf("got bitLen=%d padding=%d payload=%d bytes", packed.BitLen, packed.Padding, len(packed.Payload))
	}

	c := &Container{Tag: "raw", Codebook: cb, Padding: packed.Padding, BitLen: packed.BitLen, Payload: packed.Payload}
	container, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	parsed, err := ParseContainer(container)
	if err != nil {
		t.Fatalf("ParseContainer failed: %v", err)
	}
	for sym, code := range cb {
		if !parsed.Codebook[sym].Equal(code) {
			t.Errorf("codeword for %q: got %s, expected %s", sym, parsed.Codebook[sym], code)
		}
	}

	got, tag, err := Decode(container)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, data) || tag != "raw" {
		t.Errorf("got %q/%q, expected %q/raw", got, tag, data)
	}
}

func TestSingleSymbol(t *testing.T) {
	enc, err := EncodeDetailed([]byte("AAAA"), "")
	if err != nil {
		t.Fatalf("EncodeDetailed failed: %v", err)
	}
	if len(enc.Codebook) != 1 {
		t.Fatalf("expected 1 codeword, got %d", len(enc.Codebook))
	}
	if got := enc.Codebook['A'].String(); got != "0" {
		t.Errorf("code for A = %q, expected \"0\"", got)
	}
	if enc.Packed.BitLen != 4 || enc.Packed.Padding != 4 {
		t.Errorf("BitLen=%d Padding=%d, expected 4 and 4", enc.Packed.BitLen, enc.Packed.Padding)
	}

	root := enc.Tree.Root()
	if root.IsLeaf() || root.Left() == nil || !root.Left().IsLeaf() || root.Right() != nil {
		t.Errorf("single symbol tree should wrap the leaf on the left")
	}

	data, _, err := Decode(enc.Container)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(data) != "AAAA" {
		t.Errorf("got %q, expected \"AAAA\"", data)
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		data    string
		bitLen  int
		padding int
	}{
		{"ABABABAB", 8, 0},
		{"ABABABABABABABAB", 16, 0},
		{"ABA", 3, 5},
		{"AAAAABBBCC", 15, 1},
		{"A", 1, 7},
	}

	for _, tt := range tests {
		enc, err := EncodeDetailed([]byte(tt.data), "")
		if err != nil {
			t.Fatalf("%q: EncodeDetailed failed: %v", tt.data, err)
		}
		if enc.Packed.BitLen != tt.bitLen || enc.Packed.Padding != tt.padding {
			t.Errorf("%q: BitLen=%d Padding=%d, expected %d and %d",
				tt.data, enc.Packed.BitLen, enc.Packed.Padding, tt.bitLen, tt.padding)
		}
		if len(enc.Packed.Payload)*8 != enc.Packed.BitLen+enc.Packed.Padding {
			t.Errorf("%q: payload of %d bytes does not hold %d+%d bits",
				tt.data, len(enc.Packed.Payload), enc.Packed.BitLen, enc.Packed.Padding)
		}
		if enc.Packed.BitLen%8 == 0 && enc.Packed.Padding != 0 {
			t.Errorf("%q: aligned stream has padding %d", tt.data, enc.Packed.Padding)
		}
		if enc.Packed.BitLen%8 != 0 && (enc.Packed.Padding < 1 || enc.Packed.Padding > 7) {
			t.Errorf("%q: padding %d out of range", tt.data, enc.Packed.Padding)
		}
	}
}

func TestPrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		data := make([]byte, 500)
		for i := range data {
			data[i] = byte(rng.Intn(1 + trial*5))
		}
		ft, _ := CountFrequencies(data)
		tree, err := BuildTree(ft)
		if err != nil {
			t.Fatalf("Trial %d: BuildTree failed: %v", trial, err)
		}
		cb := BuildCodebook(tree)
		if len(cb) != ft.Distinct() {
			t.Fatalf("Trial %d: %d codewords for %d symbols", trial, len(cb), ft.Distinct())
		}

		for a, ca := range cb {
			for b, cbits := range cb {
				if a == b {
					continue
				}
				if strings.HasPrefix(cbits.String(), ca.String()) {
					t.Fatalf("Trial %d: code %s (%#02x) is a prefix of %s (%#02x)", trial, ca, a, cbits, b)
				}
			}
		}
	}
}

func TestNotWorseThanFixedWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 100; trial++ {
		data := make([]byte, 1+rng.Intn(1000))
		for i := range data {
			data[i] = byte(rng.Intn(2 + rng.Intn(255)))
		}
		enc, err := EncodeDetailed(data, "")
		if err != nil {
			t.Fatalf("Trial %d: EncodeDetailed failed: %v", trial, err)
		}
		if enc.Frequencies.Distinct() < 2 {
			continue
		}
		if enc.Stats.EncodedBits > enc.Stats.FixedWidthBits {
			t.Errorf("Trial %d: %d encoded bits exceed %d fixed-width bits",
				trial, enc.Stats.EncodedBits, enc.Stats.FixedWidthBits)
		}
		if uint64(enc.Stats.EncodedBits) != enc.Codebook.EncodedBits(enc.Frequencies) {
			t.Errorf("Trial %d: packed %d bits, codebook predicts %d",
				trial, enc.Stats.EncodedBits, enc.Codebook.EncodedBits(enc.Frequencies))
		}
	}
}

func TestDeterministic(t *testing.T) {
	data := []byte("abcdefgh abcdefgh 12345678")
	first, err := Encode(data, "txt")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Encode(data, "txt")
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encode %d produced a different container", i)
		}
	}
}

func TestCodebookIsFreshPerEncode(t *testing.T) {
	first, err := EncodeDetailed([]byte("xyzxyz"), "")
	if err != nil {
		t.Fatalf("EncodeDetailed failed: %v", err)
	}
	second, err := EncodeDetailed([]byte("AAAA"), "")
	if err != nil {
		t.Fatalf("EncodeDetailed failed: %v", err)
	}
	if len(second.Codebook) != 1 {
		t.Errorf("second codebook has %d entries, expected 1", len(second.Codebook))
	}
	if _, ok := second.Codebook['x']; ok {
		t.Errorf("symbol from a previous encode leaked into the codebook")
	}
	if len(first.Codebook) != 3 {
		t.Errorf("first codebook changed to %d entries", len(first.Codebook))
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode(nil, "txt"); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input: got %v, expected ErrEmptyInput", err)
	}
	if _, err := Encode([]byte("a"), strings.Repeat("x", 256)); !errors.Is(err, ErrTagTooLong) {
		t.Errorf("long tag: got %v, expected ErrTagTooLong", err)
	}
	if _, err := Encode([]byte("a"), string([]byte{0xff, 0xfe})); !errors.Is(err, ErrExtensionDecode) {
		t.Errorf("invalid tag: got %v, expected ErrExtensionDecode", err)
	}
	if _, err := BuildTree(&FrequencyTable{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty table: got %v, expected ErrEmptyInput", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	container, err := Encode([]byte("AAAAABBBCC"), "txt")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	for n := 0; n < len(container); n++ {
		_, _, err := Decode(container[:n])
		if !errors.Is(err, ErrTruncatedContainer) {
			t.Errorf("prefix of %d bytes: got %v, expected ErrTruncatedContainer", n, err)
		}
	}
}

func TestDecodeCorruptPayload(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		data := make([]byte, 1+rng.Intn(300))
		for i := range data {
			data[i] = byte(rng.Intn(1 + rng.Intn(40)))
		}
		container, err := Encode(data, "txt")
		if err != nil {
			t.Fatalf("Trial %d: Encode failed: %v", trial, err)
		}
		container[len(container)-1] ^= 0xff

		got, _, err := Decode(container)
		if err != nil {
			if !errors.Is(err, ErrUnknownCode) {
				t.Errorf("Trial %d: got %v, expected ErrUnknownCode", trial, err)
			}
			continue
		}
		if bytes.Equal(got, data) {
			t.Errorf("Trial %d: corrupted container decoded to the original", trial)
		}
	}
}

func TestDecodeSampleCorruption(t *testing.T) {
	container, err := Encode([]byte("AAAAABBBCC"), "txt")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	container[len(container)-1] ^= 0xff

	// 000001110000101: AAAAA B C AAAA C, then a dangling 1
	_, _, err = Decode(container)
	if !errors.Is(err, ErrUnknownCode) {
		t.Errorf("got %v, expected ErrUnknownCode", err)
	}
}

func TestDecodeInvalidContainers(t *testing.T) {
	tests := []struct {
		name      string
		container []byte
		want      error
	}{
		{
			name:      "invalid tag",
			container: []byte{0x02, 0xff, 0xfe, 0, 0, 0, 1, 'A', 1, 0, 7, 0, 0, 0, 1, 0},
			want:      ErrExtensionDecode,
		},
		{
			name:      "zero symbols",
			container: []byte{0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "too many symbols",
			container: []byte{0x00, 0, 0, 1, 1},
			want:      ErrInvalidContainer,
		},
		{
			name:      "empty codeword",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "duplicate symbol",
			container: []byte{0x00, 0, 0, 0, 2, 'A', 1, 0, 'A', 1, 1, 7, 0, 0, 0, 1, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "codeword wider than length",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 1, 0x02, 7, 0, 0, 0, 1, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "not prefix-free",
			container: []byte{0x00, 0, 0, 0, 2, 'A', 1, 0, 'B', 2, 1, 7, 0, 0, 0, 1, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "padding out of range",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 1, 0, 8, 0, 0, 0, 1, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "padding mismatch",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 1, 0, 3, 0, 0, 0, 1, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "zero bit length",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 1, 0, 0, 0, 0, 0, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "trailing bytes",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 1, 0, 7, 0, 0, 0, 1, 0, 0},
			want:      ErrInvalidContainer,
		},
		{
			name:      "short payload",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 1, 0, 0, 0, 0, 0, 16, 0},
			want:      ErrTruncatedContainer,
		},
		{
			name:      "unmatched bit",
			container: []byte{0x00, 0, 0, 0, 1, 'A', 1, 0, 6, 0, 0, 0, 2, 0x40},
			want:      ErrUnknownCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.container)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestMinHeapOrder(t *testing.T) {
	h := &minHeap{}
	freqs := []uint64{5, 1, 3, 1, 9, 3, 2, 5}
	for i, f := range freqs {
		h.push(&Node{freq: f, seq: i})
	}

	var prev *Node
	for h.size() > 0 {
		n := h.pop()
		if prev != nil && less(n, prev) {
			t.Fatalf("popped (%d,#%d) after (%d,#%d)", n.freq, n.seq, prev.freq, prev.seq)
		}
		prev = n
	}
	if h.pop() != nil {
		t.Error("pop on empty heap should return nil")
	}
}

func TestMergeFrequencies(t *testing.T) {
	data := []byte("mississippi river")
	whole, _ := CountFrequencies(data)

	left, _ := CountFrequencies(data[:7])
	right, _ := CountFrequencies(data[7:])
	right.Merge(left)

	if *right != *whole {
		t.Errorf("merged shards differ from a single count")
	}
}

func TestTreeDump(t *testing.T) {
	enc, err := EncodeDetailed([]byte("AAAAABBBCC"), "")
	if err != nil {
		t.Fatalf("EncodeDetailed failed: %v", err)
	}
	var buf bytes.Buffer
	if err := enc.Tree.Dump(&buf); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	want := "├─(10)\n" +
		"   └─('A':5)\n" +
		"   ├─(5)\n" +
		"      └─('C':2)\n" +
		"      └─('B':3)\n"
	if buf.String() != want {
		t.Errorf("unexpected dump:\n%s\nexpected:\n%s", buf.String(), want)
	}
}

func TestStats(t *testing.T) {
	data := bytes.Repeat([]byte("aaaaaaab"), 100)
	enc, err := EncodeDetailed(data, "txt")
	if err != nil {
		t.Fatalf("EncodeDetailed failed: %v", err)
	}
	s := enc.Stats
	if s.OriginalBytes != len(data) || s.ContainerBytes != len(enc.Container) {
		t.Errorf("sizes: %+v", s)
	}
	if s.Symbols != 2 || s.EncodedBits != len(data) || s.FixedWidthBits != len(data) {
		t.Errorf("bits: %+v", s)
	}
	if s.Ratio <= 6 || s.Efficiency <= 80 {
		t.Errorf("unexpected ratio %.2f / efficiency %.2f", s.Ratio, s.Efficiency)
	}

	small, err := EncodeDetailed([]byte("x"), "")
	if err != nil {
		t.Fatalf("EncodeDetailed failed: %v", err)
	}
	if small.Stats.Efficiency != 0 {
		t.Errorf("efficiency of a grown file should be 0, got %.2f", small.Stats.Efficiency)
	}
}

func TestNames(t *testing.T) {
	if got := TagFor("dir/report.txt"); got != "txt" {
		t.Errorf("TagFor = %q", got)
	}
	if got := TagFor("dir/Makefile"); got != "" {
		t.Errorf("TagFor = %q", got)
	}
	if got := CompressedName("dir/report.txt"); got != "dir/report.bin" {
		t.Errorf("CompressedName = %q", got)
	}
	if got := DecompressedName("dir/report.bin", "txt"); got != "dir/report_decompressed.txt" {
		t.Errorf("DecompressedName = %q", got)
	}
	if got := DecompressedName("dir/Makefile.bin", ""); got != "dir/Makefile_decompressed" {
		t.Errorf("DecompressedName = %q", got)
	}
}

func allBytes() []byte {
	out := make([]byte, 0, 256*3)
	for i := 0; i < 256; i++ {
		for j := 0; j <= i%3; j++ {
			out = append(out, byte(i))
		}
	}
	return out
}
