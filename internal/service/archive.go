package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/rVladislavrr/codes/internal/model"
	"github.com/rVladislavrr/codes/internal/repo"
	"github.com/rVladislavrr/codes/pkg/huffman"
	"github.com/rVladislavrr/codes/pkg/logger"
)

var (
	ErrInvalidName      = errors.New("archive name is required")
	ErrChecksumMismatch = errors.New("decoded data does not match checksum")
)

type ArchiveService struct {
	repo   repo.ArchiveRepo
	logger logger.Logger
	now    func() time.Time
}

func NewArchiveService(r repo.ArchiveRepo, l logger.Logger) *ArchiveService {
	return &ArchiveService{repo: r, logger: l, now: time.Now}
}

func checksum(b []byte) string {
	return strconv.FormatUint(xxhash.Sum64(b), 16)
}

// Compress는 name의 확장자를 tag로 삼아 data를 압축하고 저장한다.
// ID는 컨테이너의 xxhash64라서 같은 파일을 다시 올리면 같은 아카이브가 갱신된다.
func (s *ArchiveService) Compress(ctx context.Context, name string, data []byte) (*model.Archive, error) {
	name = filepath.Base(filepath.Clean(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, ErrInvalidName
	}

	enc, err := huffman.EncodeDetailed(data, huffman.TagFor(name))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}

	a := &model.Archive{
		ID:             checksum(enc.Container),
		Name:           name,
		Tag:            huffman.TagFor(name),
		Checksum:       checksum(data),
		OriginalSize:   len(data),
		CompressedSize: len(enc.Container),
		Stats:          enc.Stats,
		Container:      enc.Container,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Infof("archive created: %s (%s, %d -> %d bytes, %.2f%%)",
		a.ID, a.Name, a.OriginalSize, a.CompressedSize, a.Stats.Efficiency)
	return a, nil
}

// Decompress는 저장된 컨테이너를 풀고 원본 체크섬을 확인한다.
func (s *ArchiveService) Decompress(ctx context.Context, id string) ([]byte, *model.Archive, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, _, err := huffman.Decode(a.Container)
	if err != nil {
		s.logger.Errorf("archive %s: %v", id, err)
		return nil, nil, fmt.Errorf("decode %s: %w", id, err)
	}
	if checksum(data) != a.Checksum {
		s.logger.Errorf("archive %s: checksum %s, stored %s", id, checksum(data), a.Checksum)
		return nil, nil, ErrChecksumMismatch
	}
	s.logger.Infof("archive decoded: %s (%d bytes)", id, len(data))
	return data, a, nil
}

func (s *ArchiveService) Get(ctx context.Context, id string) (*model.Archive, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ArchiveService) List(ctx context.Context) ([]*model.Archive, error) {
	return s.repo.List(ctx)
}

func (s *ArchiveService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("archive deleted: %s", id)
	return nil
}

// Encode/Decode는 저장 없이 코덱만 거친다.
func (s *ArchiveService) Encode(data []byte, tag string) ([]byte, error) {
	out, err := huffman.Encode(data, tag)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("encoded %d -> %d bytes (tag %q)", len(data), len(out), tag)
	return out, nil
}

func (s *ArchiveService) Decode(container []byte) ([]byte, string, error) {
	data, tag, err := huffman.Decode(container)
	if err != nil {
		s.logger.Warnf("decode of %d bytes failed: %v", len(container), err)
		return nil, "", err
	}
	return data, tag, nil
}
