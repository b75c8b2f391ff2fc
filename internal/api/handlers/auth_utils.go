package handlers

import (
	"context"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/api/middleware"
)

// GetUserIDFromContext retrieves the user ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	return middleware.GetUserIDFromContext(ctx)
}
