package services

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

type RedirectService struct {
	repo   ports.LinkRepository
	logger *slog.Logger
}

func NewRedirectService(repo ports.LinkRepository, logger *slog.Logger) *RedirectService {
	return &RedirectService{repo: repo, logger: logger}
}

// Resolve finds the active link for code and counts the visit.
// A failed or lost click increment does not block the redirect.
func (s *RedirectService) Resolve(ctx context.Context, code string) (*domain.Redirect, error) {
	if !domain.IsValidShortCode(code) {
		return nil, domain.ErrLinkNotFound
	}

	link, err := s.repo.GetByShortCode(ctx, code)
	if err != nil {
		s.logger.ErrorContext(ctx, "storage failure", "op", "resolve", "code", code, "error", err)
		return nil, domain.ErrServiceUnavailable
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}

	n, err := s.repo.IncrementClicks(ctx, link.ID, 1)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "click increment failed", "id", link.ID, "code", code, "error", err)
	case n == 0:
		// Deleted between lookup and increment.
		s.logger.WarnContext(ctx, "click increment matched no active link", "id", link.ID, "code", code)
	}

	return &domain.Redirect{TargetURL: link.LongURL, StatusCode: http.StatusMovedPermanently}, nil
}

var _ ports.RedirectService = (*RedirectService)(nil)
