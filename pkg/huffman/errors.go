package huffman

import "errors"

var (
	ErrEmptyInput         = errors.New("huffman: empty input")
	ErrTruncatedContainer = errors.New("huffman: truncated container")
	ErrUnknownCode        = errors.New("huffman: unknown code")
	ErrExtensionDecode    = errors.New("huffman: tag is not valid utf-8")
	ErrInvalidContainer   = errors.New("huffman: invalid container")
	ErrTagTooLong         = errors.New("huffman: tag longer than 255 bytes")
	ErrInputTooLarge      = errors.New("huffman: encoded stream exceeds 2^32-1 bits")
)
