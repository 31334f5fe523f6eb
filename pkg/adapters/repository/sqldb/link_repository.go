package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

const linkColumns = `id, short_code, long_url, clicks, owner_id, created_at, updated_at, deleted_at`

type LinkRepository struct {
	db *DB
}

func NewLinkRepository(db *DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts an active link and fills in its ID and timestamps.
// A short code already held by an active link yields domain.ErrDuplicateCode.
func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	ts := now()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = ts
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = link.CreatedAt
	}

	query := `INSERT INTO links (short_code, long_url, clicks, owner_id, created_at, updated_at)
			  VALUES (?, ?, 0, ?, ?, ?) RETURNING id`

	err := r.db.queryRow(ctx, query,
		link.ShortCode, link.LongURL, nullableID(link.OwnerID), link.CreatedAt, link.UpdatedAt,
	).Scan(&link.ID)
	if err != nil {
		return mapUnique(err, domain.ErrDuplicateCode)
	}
	link.Clicks = 0
	link.DeletedAt = nil
	return nil
}

func (r *LinkRepository) GetByShortCode(ctx context.Context, code string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_code = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.queryRow(ctx, query, code))
}

func (r *LinkRepository) GetByID(ctx context.Context, id int64) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.queryRow(ctx, query, id))
}

// GetByShortCodeIncludingDeleted returns the newest row with code, active or not.
func (r *LinkRepository) GetByShortCodeIncludingDeleted(ctx context.Context, code string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_code = ? ORDER BY id DESC LIMIT 1`
	return r.scanOne(r.db.queryRow(ctx, query, code))
}

// Update replaces the destination of an active link and reports rows affected.
func (r *LinkRepository) Update(ctx context.Context, id int64, longURL string) (int64, error) {
	query := `UPDATE links SET long_url = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.exec(ctx, query, longURL, now(), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete marks an active link deleted. Deleting an already deleted or
// missing link is a no-op.
func (r *LinkRepository) SoftDelete(ctx context.Context, id int64) error {
	ts := now()
	query := `UPDATE links SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	_, err := r.db.exec(ctx, query, ts, ts, id)
	return err
}

// IncrementClicks adds delta to an active link's counter in a single statement.
func (r *LinkRepository) IncrementClicks(ctx context.Context, id int64, delta int64) (int64, error) {
	if delta <= 0 {
		return 0, fmt.Errorf("sqldb: click delta must be positive, got %d", delta)
	}
	query := `UPDATE links SET clicks = clicks + ? WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.exec(ctx, query, delta, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByOwner returns the owner's active links, newest first.
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links
			  WHERE owner_id = ? AND deleted_at IS NULL
			  ORDER BY created_at DESC, id DESC`
	rows, err := r.db.query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Dump returns every link row, deleted ones included, in insertion order.
func (r *LinkRepository) Dump(ctx context.Context) ([]domain.Link, error) {
	rows, err := r.db.query(ctx, `SELECT `+linkColumns+` FROM links ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Import writes a link exactly as exported, keeping clicks and timestamps.
// The ID is reassigned by the target database.
func (r *LinkRepository) Import(ctx context.Context, link *domain.Link) error {
	query := `INSERT INTO links (short_code, long_url, clicks, owner_id, created_at, updated_at, deleted_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
	err := r.db.queryRow(ctx, query,
		link.ShortCode, link.LongURL, link.Clicks, nullableID(link.OwnerID),
		link.CreatedAt.UTC(), link.UpdatedAt.UTC(), nullableTime(link.DeletedAt),
	).Scan(&link.ID)
	if err != nil {
		return mapUnique(err, domain.ErrDuplicateCode)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(s rowScanner) (*domain.Link, error) {
	var link domain.Link
	var ownerID sql.NullInt64
	var deletedAt sql.NullTime

	err := s.Scan(
		&link.ID, &link.ShortCode, &link.LongURL, &link.Clicks, &ownerID,
		&link.CreatedAt, &link.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		id := ownerID.Int64
		link.OwnerID = &id
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		link.DeletedAt = &t
	}
	return &link, nil
}

func (r *LinkRepository) scanOne(row *sql.Row) (*domain.Link, error) {
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *LinkRepository) scanAll(rows *sql.Rows) ([]domain.Link, error) {
	links := []domain.Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *link)
	}
	return links, rows.Err()
}

var _ ports.LinkRepository = (*LinkRepository)(nil)
