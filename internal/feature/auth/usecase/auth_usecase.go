package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nutriapp/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so that
// Login spends the same bcrypt time whether or not the user exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user to the storage.
	// It returns ErrEmailAlreadyExists if a user with the same email already exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user matching the specified email address.
	// It returns ErrUserNotFound if the user does not exist.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a user matching the specified ID.
	// It returns ErrUserNotFound if the user does not exist.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// ExistsByEmail reports whether a user with the email is registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionIssuer opens and closes sessions on behalf of the auth usecase.
type SessionIssuer interface {
	Issue(ctx context.Context, userID uint, meta ClientMeta) (string, time.Time, error)
	Revoke(ctx context.Context, token string) error
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Nationality string
	Phone       string
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// authUsecase implements registration, login and logout.
type authUsecase struct {
	users    UserRepository
	sessions SessionIssuer
	cost     int
}

// NewAuthUsecase creates a new instance of authUsecase.
func NewAuthUsecase(users UserRepository, sessions SessionIssuer) *authUsecase {
	return &authUsecase{
		users:    users,
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt-hashed password.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if len(in.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	email := NormalizeEmail(in.Email)

	exists, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:       email,
		Password:    string(hashed),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Nationality: strings.TrimSpace(in.Nationality),
		Phone:       strings.TrimSpace(in.Phone),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and opens a session.
// The bcrypt comparison runs even when the user does not exist.
func (u *authUsecase) Login(ctx context.Context, email, password string, meta ClientMeta) (*LoginResult, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := u.sessions.Issue(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session behind the token.
// A missing, stale or unknown token is not an error.
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := u.sessions.Revoke(ctx, token); err != nil && !IsStaleSession(err) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
