package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KI0T0/teste-back-end-teddy/pkg/adapters/repository/sqldb"
	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
	"github.com/KI0T0/teste-back-end-teddy/pkg/logging"
)

var errBoom = errors.New("boom")

type testEnv struct {
	links     *sqldb.LinkRepository
	users     *sqldb.UserRepository
	generator *ShortCodeGenerator
	service   *LinkService
	redirect  *RedirectService
}

func newTestEnv(t *testing.T, allowAlias bool) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := sqldb.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	links := sqldb.NewLinkRepository(db)
	gen := NewShortCodeGenerator(links, 6, allowAlias)
	return &testEnv{
		links:     links,
		users:     sqldb.NewUserRepository(db),
		generator: gen,
		service:   NewLinkService(links, gen, "https://sho.rt/", 6, logging.Discard()),
		redirect:  NewRedirectService(links, logging.Discard()),
	}
}

func (e *testEnv) actor(t *testing.T, email string) *domain.Actor {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return &domain.Actor{UserID: u.ID, Email: u.Email}
}

// stubLinkRepo is a programmable ports.LinkRepository for failure paths.
type stubLinkRepo struct {
	getByCode   func(code string) (*domain.Link, error)
	getByID     func(id int64) (*domain.Link, error)
	create      func(link *domain.Link) error
	update      func(id int64, longURL string) (int64, error)
	softDelete  func(id int64) error
	increment   func(id, delta int64) (int64, error)
	listByOwner func(ownerID int64) ([]domain.Link, error)

	lookups int
	creates int
}

func (s *stubLinkRepo) Create(_ context.Context, link *domain.Link) error {
	s.creates++
	if s.create != nil {
		return s.create(link)
	}
	link.ID = int64(s.creates)
	return nil
}

func (s *stubLinkRepo) GetByShortCode(_ context.Context, code string) (*domain.Link, error) {
	s.lookups++
	if s.getByCode != nil {
		return s.getByCode(code)
	}
	return nil, nil
}

func (s *stubLinkRepo) GetByID(_ context.Context, id int64) (*domain.Link, error) {
	if s.getByID != nil {
		return s.getByID(id)
	}
	return nil, nil
}

func (s *stubLinkRepo) GetByShortCodeIncludingDeleted(_ context.Context, _ string) (*domain.Link, error) {
	return nil, nil
}

func (s *stubLinkRepo) Update(_ context.Context, id int64, longURL string) (int64, error) {
	if s.update != nil {
		return s.update(id, longURL)
	}
	return 1, nil
}

func (s *stubLinkRepo) SoftDelete(_ context.Context, id int64) error {
	if s.softDelete != nil {
		return s.softDelete(id)
	}
	return nil
}

func (s *stubLinkRepo) IncrementClicks(_ context.Context, id, delta int64) (int64, error) {
	if s.increment != nil {
		return s.increment(id, delta)
	}
	return 1, nil
}

func (s *stubLinkRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Link, error) {
	if s.listByOwner != nil {
		return s.listByOwner(ownerID)
	}
	return []domain.Link{}, nil
}

func (s *stubLinkRepo) Dump(context.Context) ([]domain.Link, error) { return nil, nil }
func (s *stubLinkRepo) Import(context.Context, *domain.Link) error { return nil }

// stubUserRepo fails every call with err.
type stubUserRepo struct{ err error }

func (s *stubUserRepo) Create(context.Context, *domain.User) error { return s.err }
func (s *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, s.err
}
func (s *stubUserRepo) GetByID(context.Context, int64) (*domain.User, error) { return nil, s.err }
