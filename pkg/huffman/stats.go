package huffman

import (
	"math/bits"
	"time"
)

// Stats는 한 번의 인코딩 결과에 대한 압축 지표.
type Stats struct {
	OriginalBytes  int           `json:"original_bytes"`
	ContainerBytes int           `json:"container_bytes"`
	EncodedBits    int           `json:"encoded_bits"`
	FixedWidthBits int           `json:"fixed_width_bits"`
	Symbols        int           `json:"symbols"`
	Ratio          float64       `json:"ratio"`
	Efficiency     float64       `json:"efficiency"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// FixedWidth는 심볼당 ceil(log2(distinct)) 비트(최소 1)를 쓰는 고정 길이 부호의 비트 수.
func FixedWidth(total uint64, distinct int) uint64 {
	width := 1
	if distinct > 1 {
		width = bits.Len(uint(distinct - 1))
	}
	return total * uint64(width)
}

func newStats(ft *FrequencyTable, encodedBits, containerBytes int, elapsed time.Duration) Stats {
	total := ft.Total()
	s := Stats{
		OriginalBytes:  int(total),
		ContainerBytes: containerBytes,
		EncodedBits:    encodedBits,
		FixedWidthBits: int(FixedWidth(total, ft.Distinct())),
		Symbols:        ft.Distinct(),
		Elapsed:        elapsed,
	}
	if containerBytes > 0 {
		s.Ratio = float64(s.OriginalBytes) / float64(containerBytes)
	}
	// 컨테이너가 원본보다 작지 않으면 효율은 0
	if containerBytes < s.OriginalBytes {
		s.Efficiency = (1 - float64(containerBytes)/float64(s.OriginalBytes)) * 100
	}
	return s
}
