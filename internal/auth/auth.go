package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/password"
	"github.com/alphabot-ai/myblog/internal/store"
	"github.com/alphabot-ai/myblog/internal/validation"
)

var (
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

const (
	msgUsernameTaken = "This username is already taken."
	msgEmailTaken    = "This email address is already registered."
)

type RegisterInput struct {
	Name     string `form:"name" validate:"min=4,max=50"`
	Username string `form:"username" validate:"min=5,max=16"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,eqfield=Confirm"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

var registerMessages = validation.Messages{
	"name":              "Name must be between 4 and 50 characters.",
	"username":          "Username must be between 5 and 16 characters.",
	"email":             "Please enter a valid email address.",
	"password.required": "Please enter a password.",
	"password.eqfield":  "Passwords do not match.",
	"confirm.required":  "Please confirm your password.",
	"confirm.eqfield":   "Passwords do not match.",
}

type Service struct {
	users     store.UserStore
	hasher    *password.Hasher
	validator *validation.Validator
	now       func() time.Time
}

func NewService(users store.UserStore, hasher *password.Hasher) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		validator: validation.New(),
		now:       time.Now,
	}
}

// Register validates the submission and stores a new user. Validation
// failures, including a taken username or email, are *validation.Error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validator.Struct(in, registerMessages); err != nil {
		return model.User{}, err
	}
	// The username is checked first so a full duplicate always reports it;
	// the UNIQUE constraints still catch concurrent inserts.
	switch _, err := s.users.GetUserByUsername(ctx, in.Username); {
	case err == nil:
		return model.User{}, validation.Duplicate("username", msgUsernameTaken)
	case !errors.Is(err, store.ErrNotFound):
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}
	user := model.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	id, err := s.users.CreateUser(ctx, &user)
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		return model.User{}, validation.Duplicate("username", msgUsernameTaken)
	case errors.Is(err, store.ErrDuplicateEmail):
		return model.User{}, validation.Duplicate("email", msgEmailTaken)
	case err != nil:
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return user, nil
}

// Login checks the credentials and returns the principal to attach to the
// caller's session.
func (s *Service) Login(ctx context.Context, username, raw string) (model.Principal, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Principal{}, ErrUserNotFound
		}
		return model.Principal{}, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(raw, user.PasswordHash) {
		return model.Principal{}, ErrInvalidCredentials
	}
	return model.Principal{Username: user.Username}, nil
}
