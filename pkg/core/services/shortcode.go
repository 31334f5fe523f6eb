package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/KI0T0/teste-back-end-teddy/pkg/core/domain"
	"github.com/KI0T0/teste-back-end-teddy/pkg/ports"
)

const maxGenerateAttempts = 5

// ShortCodeGenerator hands out codes that are unused among active links.
// The check is advisory: the unique index has the final word at insert time.
type ShortCodeGenerator struct {
	repo          ports.LinkRepository
	defaultLength int
	allowAlias    bool
	random        io.Reader
	maxAttempts   int
}

func NewShortCodeGenerator(repo ports.LinkRepository, defaultLength int, allowAlias bool) *ShortCodeGenerator {
	if defaultLength < 1 || defaultLength > domain.MaxShortCodeLen {
		defaultLength = domain.MaxShortCodeLen
	}
	return &ShortCodeGenerator{
		repo:          repo,
		defaultLength: defaultLength,
		allowAlias:    allowAlias,
		random:        rand.Reader,
		maxAttempts:   maxGenerateAttempts,
	}
}

// Generate returns customAlias when it is allowed, well formed and free.
// Without an alias it draws random codes of length characters.
// Storage failures are returned as is.
func (g *ShortCodeGenerator) Generate(ctx context.Context, length int, customAlias string) (string, error) {
	if customAlias != "" {
		return g.checkAlias(ctx, customAlias)
	}

	if length < 1 {
		length = g.defaultLength
	}
	if length > domain.MaxShortCodeLen {
		length = domain.MaxShortCodeLen
	}

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := g.randomCode(length)
		if err != nil {
			return "", err
		}
		existing, err := g.repo.GetByShortCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", domain.ErrCodeSpaceExhausted
}

func (g *ShortCodeGenerator) checkAlias(ctx context.Context, alias string) (string, error) {
	if !g.allowAlias {
		return "", domain.ErrAliasFeatureDisabled
	}
	if err := domain.ValidateAlias(alias); err != nil {
		return "", err
	}
	existing, err := g.repo.GetByShortCode(ctx, alias)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrAliasConflict
	}
	return alias, nil
}

func (g *ShortCodeGenerator) randomCode(length int) (string, error) {
	max := big.NewInt(int64(len(domain.CodeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(g.random, max)
		if err != nil {
			return "", fmt.Errorf("random source: %w", err)
		}
		b[i] = domain.CodeAlphabet[num.Int64()]
	}
	return string(b), nil
}

var _ ports.CodeGenerator = (*ShortCodeGenerator)(nil)
