package huffman

// FrequencyTable는 바이트 값(0-255)별 등장 횟수. 인덱스가 곧 심볼.
type FrequencyTable [256]uint64

// CountFrequencies는 data의 바이트 빈도를 센다. 빈 입력이면 트리를 만들 수 없으므로 ErrEmptyInput.
func CountFrequencies(data []byte) (*FrequencyTable, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	ft := &FrequencyTable{}
	ft.Add(data)
	return ft, nil
}

func (ft *FrequencyTable) Add(data []byte) {
	for _, c := range data {
		ft[c]++
	}
}

// Merge는 다른 샤드에서 센 빈도를 더한다 (교환 법칙 성립).
func (ft *FrequencyTable) Merge(other *FrequencyTable) {
	for i, f := range other {
		ft[i] += f
	}
}

func (ft *FrequencyTable) Distinct() int {
	n := 0
	for _, f := range ft {
		if f > 0 {
			n++
		}
	}
	return n
}

func (ft *FrequencyTable) Total() uint64 {
	var t uint64
	for _, f := range ft {
		t += f
	}
	return t
}
