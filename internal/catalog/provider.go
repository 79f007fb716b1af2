// Package catalog supplies ordered exercise sequences per category.
package catalog

import (
	"context"
	"errors"

	"github.com/Abdalla2024/stretchApp/internal/domain"
)

// ErrUnavailable signals that the catalog could not serve a category.
// Callers may retry; the session controller surfaces it unchanged.
var ErrUnavailable = errors.New("catalog unavailable")

// Provider fetches the ordered exercise sequence for a category. Each
// call returns a fresh copy so a session's snapshot is isolated from
// later catalog edits.
type Provider interface {
	FetchExercises(ctx context.Context, categoryID string) ([]domain.Exercise, error)
}
