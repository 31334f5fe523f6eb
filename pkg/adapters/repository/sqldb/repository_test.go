package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, db *DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		url     string
		driver  string
		dialect dialect
	}{
		{"postgres://u:p@localhost/db", "postgres", dialectPostgres},
		{"postgresql://localhost/db", "postgres", dialectPostgres},
		{"libsql://my-db.turso.io?authToken=x", "libsql", dialectSQLite},
		{"wss://my-db.turso.io", "libsql", dialectSQLite},
		{"file:links.db", "sqlite", dialectSQLite},
		{"links.db", "sqlite", dialectSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, dia := driverFor(tt.url)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dialect, dia)
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: dialectPostgres}
	assert.Equal(t, "UPDATE links SET a = $1 WHERE id = $2", pg.rebind("UPDATE links SET a = ? WHERE id = ?"))

	lite := &DB{dialect: dialectSQLite}
	assert.Equal(t, "SELECT ? ", lite.rebind("SELECT ? "))
}

func TestMigrations(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := db.MigrationVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	// Re-applying is a no-op.
	require.NoError(t, db.MigrateUp())

	require.NoError(t, db.MigrateDown(1))
	version, _, err = db.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.Error(t, db.MigrateDown(0))
	require.NoError(t, db.MigrateUp())
}

func TestLinkRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")

	link := &domain.Link{ShortCode: "abc123", LongURL: "https://example.com", OwnerID: &owner.ID}
	require.NoError(t, repo.Create(ctx, link))
	assert.NotZero(t, link.ID)
	assert.False(t, link.CreatedAt.IsZero())

	got, err := repo.GetByShortCode(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, "https://example.com", got.LongURL)
	assert.Equal(t, int64(0), got.Clicks)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, owner.ID, *got.OwnerID)
	assert.Nil(t, got.DeletedAt)

	byID, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "abc123", byID.ShortCode)

	missing, err := repo.GetByShortCode(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLinkRepository_AnonymousLink(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	link := &domain.Link{ShortCode: "anon", LongURL: "https://example.com"}
	require.NoError(t, repo.Create(ctx, link))

	got, err := repo.GetByShortCode(ctx, "anon")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.OwnerID)
}

func TestLinkRepository_DuplicateCode(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Link{ShortCode: "dup", LongURL: "https://a.example"}))
	err := repo.Create(ctx, &domain.Link{ShortCode: "dup", LongURL: "https://b.example"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateCode))

	var dbErr *DBError
	assert.True(t, errors.As(err, &dbErr))
}

func TestLinkRepository_SoftDeleteFreesCode(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	first := &domain.Link{ShortCode: "reuse", LongURL: "https://old.example"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.SoftDelete(ctx, first.ID))

	// Idempotent.
	require.NoError(t, repo.SoftDelete(ctx, first.ID))

	gone, err := repo.GetByShortCode(ctx, "reuse")
	require.NoError(t, err)
	assert.Nil(t, gone)

	gone, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err := repo.GetByShortCodeIncludingDeleted(ctx, "reuse")
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.NotNil(t, deleted.DeletedAt)

	second := &domain.Link{ShortCode: "reuse", LongURL: "https://new.example"}
	require.NoError(t, repo.Create(ctx, second))

	active, err := repo.GetByShortCode(ctx, "reuse")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "https://new.example", active.LongURL)

	latest, err := repo.GetByShortCodeIncludingDeleted(ctx, "reuse")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestLinkRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	link := &domain.Link{ShortCode: "upd", LongURL: "https://old.example"}
	require.NoError(t, repo.Create(ctx, link))

	n, err := repo.Update(ctx, link.ID, "https://new.example")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://new.example", got.LongURL)
	assert.Equal(t, "upd", got.ShortCode)

	require.NoError(t, repo.SoftDelete(ctx, link.ID))
	n, err = repo.Update(ctx, link.ID, "https://other.example")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestLinkRepository_IncrementClicks(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	link := &domain.Link{ShortCode: "clk", LongURL: "https://example.com"}
	require.NoError(t, repo.Create(ctx, link))

	n, err := repo.IncrementClicks(ctx, link.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.IncrementClicks(ctx, link.ID, 0)
	assert.Error(t, err)

	got, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Clicks)

	require.NoError(t, repo.SoftDelete(ctx, link.ID))
	n, err = repo.IncrementClicks(ctx, link.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestLinkRepository_ConcurrentIncrements(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	link := &domain.Link{ShortCode: "race", LongURL: "https://example.com"}
	require.NoError(t, repo.Create(ctx, link))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.IncrementClicks(ctx, link.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), got.Clicks)
}

func TestLinkRepository_ListByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, code := range []string{"a1", "a2", "a3"} {
		l := &domain.Link{ShortCode: code, LongURL: "https://example.com/" + code, OwnerID: &alice.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, l))
	}
	require.NoError(t, repo.Create(ctx, &domain.Link{ShortCode: "b1", LongURL: "https://example.com", OwnerID: &bob.ID}))
	require.NoError(t, repo.Create(ctx, &domain.Link{ShortCode: "anon", LongURL: "https://example.com"}))

	a2, err := repo.GetByShortCode(ctx, "a2")
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, a2.ID))

	links, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "a3", links[0].ShortCode)
	assert.Equal(t, "a1", links[1].ShortCode)

	none, err := repo.ListByOwner(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLinkRepository_DumpAndImport(t *testing.T) {
	src := newTestDB(t)
	srcRepo := NewLinkRepository(src)
	ctx := context.Background()

	live := &domain.Link{ShortCode: "live", LongURL: "https://live.example"}
	require.NoError(t, srcRepo.Create(ctx, live))
	_, err := srcRepo.IncrementClicks(ctx, live.ID, 7)
	require.NoError(t, err)
	dead := &domain.Link{ShortCode: "dead", LongURL: "https://dead.example"}
	require.NoError(t, srcRepo.Create(ctx, dead))
	require.NoError(t, srcRepo.SoftDelete(ctx, dead.ID))

	dump, err := srcRepo.Dump(ctx)
	require.NoError(t, err)
	require.Len(t, dump, 2)

	dst, err := Open("file:TestLinkRepository_DumpAndImport_dst?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dst.Close() })
	dstRepo := NewLinkRepository(dst)

	for i := range dump {
		require.NoError(t, dstRepo.Import(ctx, &dump[i]))
	}

	got, err := dstRepo.GetByShortCode(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.Clicks)

	gone, err := dstRepo.GetByShortCode(ctx, "dead")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Email: "alice@example.com", PasswordHash: "$2a$10$hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice@example.com", byID.Email)

	missing, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &domain.User{Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}
