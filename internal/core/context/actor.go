// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"stitchline/internal/core/id"
)

// Actor is the authenticated staff member performing an operation.
// Stock operations take it as an explicit parameter; the HTTP layer
// resolves it from the access token and stores it here.
type Actor struct {
	StaffID id.ID
	Name    string
	Surname string
	Role    string
}

// FullName returns "Name Surname" for history denormalization.
func (a Actor) FullName() string {
	if a.Surname == "" {
		return a.Name
	}
	return a.Name + " " + a.Surname
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context or nil.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetStaffID returns the acting staff ID from context or the zero ID.
func GetStaffID(ctx context.Context) id.ID {
	if a := GetActor(ctx); a != nil {
		return a.StaffID
	}
	return id.Nil()
}

// HasRole checks if the acting staff member has the given role.
func HasRole(ctx context.Context, role string) bool {
	a := GetActor(ctx)
	return a != nil && a.Role == role
}
