package repo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rVladislavrr/codes/internal/model"
)

var ErrNotFound = errors.New("not found")

// 인터페이스
type ArchiveRepo interface {
	Save(ctx context.Context, a *model.Archive) error
	FindByID(ctx context.Context, id string) (*model.Archive, error)
	// List는 최신순이며 컨테이너 바이트는 비워서 돌려준다
	List(ctx context.Context) ([]*model.Archive, error)
	Delete(ctx context.Context, id string) error
}

type archiveRepoInMemory struct {
	mu    sync.RWMutex
	store map[string]*model.Archive
}

func NewArchiveRepoInMemory() ArchiveRepo {
	return &archiveRepoInMemory{store: make(map[string]*model.Archive)}
}

func (r *archiveRepoInMemory) Save(_ context.Context, a *model.Archive) error {
	cp := *a
	cp.Container = append([]byte(nil), a.Container...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[a.ID] = &cp
	return nil
}

func (r *archiveRepoInMemory) FindByID(_ context.Context, id string) (*model.Archive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *archiveRepoInMemory) List(_ context.Context) ([]*model.Archive, error) {
	r.mu.RLock()
	out := make([]*model.Archive, 0, len(r.store))
	for _, a := range r.store {
		cp := *a
		cp.Container = nil
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (r *archiveRepoInMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[id]; !ok {
		return ErrNotFound
	}
	delete(r.store, id)
	return nil
}

func sortNewestFirst(as []*model.Archive) {
	sort.Slice(as, func(i, j int) bool {
		if !as[i].CreatedAt.Equal(as[j].CreatedAt) {
			return as[i].CreatedAt.After(as[j].CreatedAt)
		}
		return as[i].ID < as[j].ID
	})
}
