package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Active   bool
	Admin    bool
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrAlreadyExist
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Active:       in.Active,
		Admin:        in.Admin,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate resolves email+password to a user. It succeeds only when the
// password matches the stored hash and the account is active.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
