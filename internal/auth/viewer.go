// Package auth resolves who is viewing a form and what they may do.
package auth

import (
	"context"
	"strings"

	"repairshop/common"
	"repairshop/internal/access"
)

// Viewer is the authenticated staff member behind a request.
type Viewer struct {
	Email string
	Roles []string
}

type viewerKey struct{}

// WithViewer returns ctx carrying v
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the viewer placed by WithViewer
func ViewerFrom(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(Viewer)
	return v, ok
}

// Provider answers currentUserPermissions and currentUserIdentity.
type Provider interface {
	Permissions(ctx context.Context) (access.Permissions, error)
	Identity(ctx context.Context) (string, error)
}

// ContextProvider reads the viewer placed on the context by the bearer
// middleware.
type ContextProvider struct{}

// NewContextProvider creates a new ContextProvider
func NewContextProvider() *ContextProvider {
	return &ContextProvider{}
}

func (ContextProvider) Permissions(ctx context.Context) (access.Permissions, error) {
	v, ok := ViewerFrom(ctx)
	if !ok {
		return nil, common.ErrUnauthenticated
	}
	return access.NewPermissions(v.Roles...), nil
}

func (ContextProvider) Identity(ctx context.Context) (string, error) {
	v, ok := ViewerFrom(ctx)
	if !ok || v.Email == "" {
		return "", common.ErrUnauthenticated
	}
	return strings.ToLower(v.Email), nil
}
