package api

import (
	"context"

	"github.com/avolkov/blogicum-backend/models"
	"github.com/google/uuid"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser adds the authenticated user to the context
func ctxWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the authenticated user from the context, nil for
// anonymous requests
func ctxGetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// ctxGetUserID returns the authenticated user's ID, uuid.Nil for
// anonymous requests
func ctxGetUserID(ctx context.Context) uuid.UUID {
	if user := ctxGetUser(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}
