package handler

import (
	"context"

	"github.com/smenuberu/dashboard/internal/domain"
)

type ContextKey string

var UserCtxKey ContextKey = "user"

// currentUser is set by requireUser; it is nil outside /dashboard.
func currentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(UserCtxKey).(*domain.User)
	return user
}
