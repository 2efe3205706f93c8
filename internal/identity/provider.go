// Package identity resolves an email or an id to an account across the
// three account stores (generic, student, teacher).
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
)

var ErrNotFound = errors.New("identity not found")

type Provider interface {
	Origin() models.Origin
	FindByEmail(ctx context.Context, email string) (models.Identity, error)
	FindByID(ctx context.Context, id string) (models.Identity, error)
}

// Chain is an ordered list of providers. Email lookups probe the providers
// in order and stop at the first match.
type Chain []Provider

func (c Chain) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	for _, p := range c {
		ident, err := p.FindByEmail(ctx, email)
		if err == nil {
			return ident, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return models.Identity{}, fmt.Errorf("%s store: %w", p.Origin(), err)
		}
	}
	return models.Identity{}, ErrNotFound
}

// FindByOrigin looks an id up in the store named by origin. Unknown origins
// resolve against the generic store.
func (c Chain) FindByOrigin(ctx context.Context, origin models.Origin, id string) (models.Identity, error) {
	switch origin {
	case models.OriginTeacher, models.OriginStudent:
	default:
		origin = models.OriginGeneric
	}

	p, ok := c.provider(origin)
	if !ok {
		return models.Identity{}, ErrNotFound
	}
	ident, err := p.FindByID(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.Identity{}, fmt.Errorf("%s store: %w", origin, err)
	}
	return ident, err
}

func (c Chain) provider(origin models.Origin) (Provider, bool) {
	for _, p := range c {
		if p.Origin() == origin {
			return p, true
		}
	}
	return nil, false
}
