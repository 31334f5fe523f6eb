package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

const userColumns = `id, email, password_hash, created_at, updated_at, deleted_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a user whose email is already normalized.
// An email held by an active user yields domain.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	query := `INSERT INTO users (email, password_hash, created_at, updated_at)
			  VALUES (?, ?, ?, ?) RETURNING id`
	err := r.db.queryRow(ctx, query, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		return mapUnique(err, domain.ErrDuplicateEmail)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? AND deleted_at IS NULL`
	return scanUser(r.db.queryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? AND deleted_at IS NULL`
	return scanUser(r.db.queryRow(ctx, query, id))
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var deletedAt sql.NullTime

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		user.DeletedAt = &t
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
