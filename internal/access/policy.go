// Package access answers whether a user may open a given exercise.
package access

import "github.com/Abdalla2024/stretchApp/internal/domain"

// Policy is consulted by the session controller before any forward
// navigation past a restricted exercise. Implementations must be pure
// queries: synchronous, side-effect free, never blocking.
type Policy interface {
	CanAccess(ex domain.Exercise) bool
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(ex domain.Exercise) bool

func (f PolicyFunc) CanAccess(ex domain.Exercise) bool {
	return f(ex)
}

// Entitlement is the standard tiered policy: free-tier exercises are
// always open, restricted ones require a premium entitlement. The
// entitlement is fixed at construction; refreshing it (subscription
// sync) happens outside the session engine.
type Entitlement struct {
	premium bool
}

func NewEntitlement(premium bool) Entitlement {
	return Entitlement{premium: premium}
}

func (e Entitlement) CanAccess(ex domain.Exercise) bool {
	return !ex.Restricted || e.premium
}
