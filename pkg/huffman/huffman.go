// Package huffman은 바이트 열을 허프만 부호로 압축하고, 자기 기술적인 컨테이너에서 원본을 복원한다.
//
// 인코딩: 빈도 → 트리 → 코드북 → 비트 패킹 → 컨테이너.
// 디코딩: 컨테이너 파싱 → 코드북 역변환 → 비트 단위 매칭.
package huffman

import (
	"fmt"
	"time"
)

// Encoded는 인코딩 중간 산출물까지 담은 결과 (CLI 통계/트리 출력용).
type Encoded struct {
	Container   []byte
	Tree        *Tree
	Codebook    Codebook
	Frequencies *FrequencyTable
	Packed      *Packed
	Stats       Stats
}

// EncodeDetailed는 data를 압축하고 중간 산출물을 함께 돌려준다.
func EncodeDetailed(data []byte, tag string) (*Encoded, error) {
	start := time.Now()
	if err := checkTag(tag); err != nil {
		return nil, err
	}

	ft, err := CountFrequencies(data)
	if err != nil {
		return nil, err
	}
	tree, err := BuildTree(ft)
	if err != nil {
		return nil, err
	}
	cb := BuildCodebook(tree)
	packed, err := Pack(data, cb)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Tag:      tag,
		Codebook: cb,
		Padding:  packed.Padding,
		BitLen:   packed.BitLen,
		Payload:  packed.Payload,
	}
	out, err := c.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal container: %w", err)
	}

	return &Encoded{
		Container:   out,
		Tree:        tree,
		Codebook:    cb,
		Frequencies: ft,
		Packed:      packed,
		Stats:       newStats(ft, packed.BitLen, len(out), time.Since(start)),
	}, nil
}

// Encode는 data를 압축해 컨테이너 바이트를 돌려준다. tag는 원본 파일 확장자 (최대 255바이트, UTF-8).
func Encode(data []byte, tag string) ([]byte, error) {
	e, err := EncodeDetailed(data, tag)
	if err != nil {
		return nil, err
	}
	return e.Container, nil
}

// Decode는 컨테이너에서 원본 바이트와 tag를 복원한다.
func Decode(container []byte) ([]byte, string, error) {
	c, err := ParseContainer(container)
	if err != nil {
		return nil, "", err
	}
	data, err := DecodeBits(c.Payload, c.BitLen, c.Codebook)
	if err != nil {
		return nil, "", err
	}
	return data, c.Tag, nil
}
