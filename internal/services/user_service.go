package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	// Login applies the authenticated identity to session.
	Login(ctx context.Context, session *models.Session, username, password string) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// OwnerCredentials are the configured store owner login.
type OwnerCredentials struct {
	Username string
	Password string
}

type userService struct {
	userRepo repository.UserRepository
	owner    OwnerCredentials
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, owner OwnerCredentials, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{userRepo: userRepo, owner: owner, log: log}
}

func (s *userService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if username == s.owner.Username {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		Role:     models.Customer,
		UserID:   models.NewUserID(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.log.Info("user registered", zap.String("username", username))
	return user, nil
}

func (s *userService) Login(ctx context.Context, session *models.Session, username, password string) error {
	username = strings.TrimSpace(username)
	if s.isOwner(username, password) {
		session.Role = models.StoreOwner
		session.Username = username
		if session.UserID == "" {
			session.UserID = models.NewUserID()
		}
		s.log.Info("store owner logged in", zap.String("username", username))
		return nil
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !checkPassword(user.Password, password) {
		return ErrInvalidCredentials
	}

	session.Role = models.Customer
	session.Username = user.Username
	if user.UserID != "" {
		session.UserID = user.UserID
	} else if session.UserID == "" {
		session.UserID = models.NewUserID()
	}

	s.log.Info("user logged in", zap.String("username", username))
	return nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *userService) isOwner(username, password string) bool {
	if s.owner.Username == "" || s.owner.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(username), []byte(s.owner.Username)) == 1 &&
		subtle.ConstantTimeCompare([]byte(password), []byte(s.owner.Password)) == 1
}

// checkPassword also accepts plaintext passwords from older users files.
func checkPassword(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
