package repository

import (
	"context"

	"pizza_store/internal/jsonstore"
	"pizza_store/internal/models"
)

type UserRepository interface {
	// Create fails with ErrDuplicateUser when the username is taken.
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	file *jsonstore.File[models.User]
}

func NewUserRepository(file *jsonstore.File[models.User]) UserRepository {
	return &userRepository{file: file}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.file.Update(func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Username == user.Username {
				return nil, ErrDuplicateUser
			}
		}
		return append(users, *user), nil
	})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.file.Load() {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return r.file.Load(), nil
}
