package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

type LinkService struct {
	repo       ports.LinkRepository
	generator  ports.CodeGenerator
	baseURL    string
	codeLength int
	logger     *slog.Logger
}

func NewLinkService(repo ports.LinkRepository, generator ports.CodeGenerator, baseURL string, codeLength int, logger *slog.Logger) *LinkService {
	return &LinkService{
		repo:       repo,
		generator:  generator,
		baseURL:    strings.TrimRight(baseURL, "/"),
		codeLength: codeLength,
		logger:     logger,
	}
}

// CreateLink shortens longURL. actor may be nil for anonymous links.
func (s *LinkService) CreateLink(ctx context.Context, longURL, customAlias string, actor *domain.Actor) (*domain.LinkSummary, error) {
	target, err := domain.ValidateLongURL(longURL)
	if err != nil {
		return nil, err
	}

	link := &domain.Link{LongURL: target}
	if actor != nil {
		ownerID := actor.UserID
		link.OwnerID = &ownerID
	}

	// A generated code can lose the race to a concurrent insert between the
	// availability check and the insert; it gets one more draw.
	for attempt := 0; ; attempt++ {
		code, err := s.generator.Generate(ctx, s.codeLength, customAlias)
		if err != nil {
			return nil, s.generatorError(ctx, err)
		}
		link.ShortCode = code

		err = s.repo.Create(ctx, link)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateCode) {
			return nil, s.unavailable(ctx, "create link", err)
		}
		if customAlias != "" {
			return nil, domain.ErrAliasConflict
		}
		if attempt >= 1 {
			return nil, domain.ErrCodeSpaceExhausted
		}
		s.logger.WarnContext(ctx, "short code collided on insert, regenerating", "code", code)
	}

	s.logger.InfoContext(ctx, "link created", "id", link.ID, "code", link.ShortCode, "anonymous", actor == nil)

	return &domain.LinkSummary{
		ShortURL:  s.baseURL + "/" + link.ShortCode,
		ShortCode: link.ShortCode,
		LongURL:   link.LongURL,
		Owner:     actor != nil,
		CreatedAt: link.CreatedAt,
		Clicks:    0,
	}, nil
}

// UpdateLink replaces the destination of a link the actor owns. Links that
// are missing, deleted, anonymous or owned by someone else all report
// domain.ErrLinkNotFound.
func (s *LinkService) UpdateLink(ctx context.Context, id int64, actor *domain.Actor, longURL string) (*domain.Link, error) {
	link, err := s.ownedLink(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	target, err := domain.ValidateLongURL(longURL)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.Update(ctx, link.ID, target)
	if err != nil {
		return nil, s.unavailable(ctx, "update link", err)
	}
	if n == 0 {
		return nil, domain.ErrLinkNotFound
	}

	updated, err := s.repo.GetByID(ctx, link.ID)
	if err != nil {
		return nil, s.unavailable(ctx, "reload link", err)
	}
	if updated == nil {
		return nil, domain.ErrLinkNotFound
	}
	return updated, nil
}

// DeleteLink soft-deletes a link the actor owns.
func (s *LinkService) DeleteLink(ctx context.Context, id int64, actor *domain.Actor) error {
	link, err := s.ownedLink(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, link.ID); err != nil {
		return s.unavailable(ctx, "delete link", err)
	}
	s.logger.InfoContext(ctx, "link deleted", "id", link.ID, "code", link.ShortCode)
	return nil
}

// ListOwnedLinks returns the actor's active links, newest first.
func (s *LinkService) ListOwnedLinks(ctx context.Context, actor *domain.Actor) ([]domain.Link, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	links, err := s.repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, s.unavailable(ctx, "list links", err)
	}
	return links, nil
}

func (s *LinkService) ownedLink(ctx context.Context, id int64, actor *domain.Actor) (*domain.Link, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.unavailable(ctx, "load link", err)
	}
	if link == nil || !link.IsOwnedBy(actor.UserID) {
		return nil, domain.ErrLinkNotFound
	}
	return link, nil
}

// generatorError passes taxonomy errors through and hides everything else.
func (s *LinkService) generatorError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrAliasFeatureDisabled),
		errors.Is(err, domain.ErrInvalidAliasFormat),
		errors.Is(err, domain.ErrAliasConflict),
		errors.Is(err, domain.ErrCodeSpaceExhausted):
		return err
	}
	return s.unavailable(ctx, "generate short code", err)
}

func (s *LinkService) unavailable(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "storage failure", "op", op, "error", err)
	return domain.ErrServiceUnavailable
}

var _ ports.LinkService = (*LinkService)(nil)
