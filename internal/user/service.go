package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"waste-platform/internal/rbac"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the persistence contract for users.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByRole(ctx context.Context, role rbac.Role) ([]User, error)
}

var (
	ErrNotFound           = errors.New("user: not found")
	ErrEmailTaken         = errors.New("user: email already registered")
	ErrInvalidCredentials = errors.New("user: invalid credentials")
	ErrInvalidInput       = errors.New("user: invalid input")
)

// Service is the identity provider: credential storage and verification.
// Token issuance lives in internal/auth; handlers combine the two.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     rbac.Role
	Phone    string
}

// Register creates a new user with a bcrypt-hashed password. The role
// defaults to citizen when absent; duplicate emails return ErrEmailTaken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return User{}, ErrInvalidInput
	}
	if in.Role == "" {
		in.Role = rbac.RoleCitizen
	}
	if _, ok := rbac.ParseRole(string(in.Role)); !ok {
		return User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifies credentials. Lookup misses and hash mismatches both return
// ErrInvalidCredentials so responses do not reveal which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListWorkers returns the directory agents pick assignees from.
func (s *Service) ListWorkers(ctx context.Context) ([]Worker, error) {
	users, err := s.repo.ListByRole(ctx, rbac.RoleWorker)
	if err != nil {
		return nil, err
	}
	out := make([]Worker, 0, len(users))
	for _, u := range users {
		out = append(out, Worker{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone})
	}
	return out, nil
}

// IsWorker implements the workflow engine's worker directory check.
func (s *Service) IsWorker(ctx context.Context, userID string) (bool, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.Role == rbac.RoleWorker, nil
}
