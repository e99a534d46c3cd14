package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rVladislavrr/codes/internal/model"
)

// Open은 풀을 만들고 ping으로 연결을 확인한다. 실패하면 풀을 닫는다.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	cfg.HealthCheckPeriod = time.Minute
	cfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping archives db: %w", err)
	}
	return pool, nil
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS archives (
  id              TEXT PRIMARY KEY,
  name            TEXT NOT NULL,
  tag             TEXT NOT NULL,
  checksum        TEXT NOT NULL,
  original_size   INTEGER NOT NULL,
  compressed_size INTEGER NOT NULL,
  stats           JSONB NOT NULL,
  container       BYTEA NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL
)`)
	return err
}

type archiveRepoPG struct {
	pool *pgxpool.Pool
}

func NewArchiveRepoPG(pool *pgxpool.Pool) ArchiveRepo {
	return &archiveRepoPG{pool: pool}
}

func (r *archiveRepoPG) Save(ctx context.Context, a *model.Archive) error {
	stats, err := json.Marshal(a.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO archives (id, name, tag, checksum, original_size, compressed_size, stats, container, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, created_at = EXCLUDED.created_at`,
		a.ID, a.Name, a.Tag, a.Checksum, a.OriginalSize, a.CompressedSize, stats, a.Container, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert archive %s: %w", a.ID, err)
	}
	return nil
}

func (r *archiveRepoPG) FindByID(ctx context.Context, id string) (*model.Archive, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, tag, checksum, original_size, compressed_size, stats, container, created_at
FROM archives WHERE id = $1`, id)

	a := &model.Archive{}
	var stats []byte
	err := row.Scan(&a.ID, &a.Name, &a.Tag, &a.Checksum, &a.OriginalSize, &a.CompressedSize, &stats, &a.Container, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select archive %s: %w", id, err)
	}
	if err := json.Unmarshal(stats, &a.Stats); err != nil {
		return nil, fmt.Errorf("archive %s stats: %w", id, err)
	}
	return a, nil
}

func (r *archiveRepoPG) List(ctx context.Context) ([]*model.Archive, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, tag, checksum, original_size, compressed_size, stats, created_at
FROM archives ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	out := make([]*model.Archive, 0)
	for rows.Next() {
		a := &model.Archive{}
		var stats []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.Tag, &a.Checksum, &a.OriginalSize, &a.CompressedSize, &stats, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		if err := json.Unmarshal(stats, &a.Stats); err != nil {
			return nil, fmt.Errorf("archive %s stats: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *archiveRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM archives WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete archive %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
