// Package users persists account records.
package users

import (
	"context"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

// Repository stores users. Emails are expected to be normalized by the
// caller. Lookups that match nothing return common.ErrorNotFound; a
// duplicate email on Create returns common.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
