package ports

import (
	"context"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
)

// LinkRepository defines storage operations for links.
// Lookups return (nil, nil) when no active row matches.
type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	GetByShortCode(ctx context.Context, code string) (*domain.Link, error)
	GetByID(ctx context.Context, id int64) (*domain.Link, error)
	GetByShortCodeIncludingDeleted(ctx context.Context, code string) (*domain.Link, error)
	Update(ctx context.Context, id int64, longURL string) (int64, error)
	SoftDelete(ctx context.Context, id int64) error
	IncrementClicks(ctx context.Context, id int64, delta int64) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Link, error)

	// For migration
	Dump(ctx context.Context) ([]domain.Link, error)
	Import(ctx context.Context, link *domain.Link) error
}

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// CodeGenerator hands out short codes that are free at the time of the call.
type CodeGenerator interface {
	Generate(ctx context.Context, length int, customAlias string) (string, error)
}

// LinkService defines the link lifecycle operations
type LinkService interface {
	CreateLink(ctx context.Context, longURL, customAlias string, actor *domain.Actor) (*domain.LinkSummary, error)
	UpdateLink(ctx context.Context, id int64, actor *domain.Actor, longURL string) (*domain.Link, error)
	DeleteLink(ctx context.Context, id int64, actor *domain.Actor) error
	ListOwnedLinks(ctx context.Context, actor *domain.Actor) ([]domain.Link, error)
}

// RedirectService resolves short codes for the public redirect path.
type RedirectService interface {
	Resolve(ctx context.Context, code string) (*domain.Redirect, error)
}

// AuthService registers users and issues/verifies session tokens.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	LoginWithVerifiedEmail(ctx context.Context, email string) (string, error)
	VerifyToken(ctx context.Context, token string) (*domain.Actor, error)
}
