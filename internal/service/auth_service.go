package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iliyamo/realestate-listing/internal/model"
	"github.com/iliyamo/realestate-listing/internal/repository"
	"github.com/iliyamo/realestate-listing/internal/utils"
)

// UserStore is the credential store the auth service needs.
type UserStore interface {
	UserFinder
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) (uint64, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(name string, id uint64) (utils.AccessToken, error)
}

// SignupParams is the validated signup body.
type SignupParams struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	ProductKey string
}

// AuthService implements signup, signin and product key minting.
type AuthService struct {
	Users            UserStore
	Tokens           TokenIssuer
	BcryptCost       int
	ProductKeySecret string
	Log              zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, tokens TokenIssuer, bcryptCost int, productKeySecret string, log zerolog.Logger) *AuthService {
	return &AuthService{
		Users:            users,
		Tokens:           tokens,
		BcryptCost:       bcryptCost,
		ProductKeySecret: productKeySecret,
		Log:              log,
	}
}

// Signup registers a new identity with role and returns a session token.
// Roles above BUYER require a product key minted for the same email and role.
func (s *AuthService) Signup(ctx context.Context, p SignupParams, role model.Role) (utils.AccessToken, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if role == "" {
		role = model.RoleBuyer
	}
	if role != model.RoleBuyer {
		if p.ProductKey == "" || s.ProductKeySecret == "" ||
			!utils.VerifyProductKey(p.ProductKey, email, role.String(), s.ProductKeySecret) {
			return utils.AccessToken{}, ErrInvalidProductKey
		}
	}

	_, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return utils.AccessToken{}, ErrConflict
	case !errors.Is(err, repository.ErrUserNotFound):
		return utils.AccessToken{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(p.Password, s.BcryptCost)
	if err != nil {
		return utils.AccessToken{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.Users.Create(ctx, model.User{
		Name:         strings.TrimSpace(p.Name),
		Email:        email,
		Phone:        strings.TrimSpace(p.Phone),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return utils.AccessToken{}, ErrConflict
		}
		return utils.AccessToken{}, fmt.Errorf("create user: %w", err)
	}
	s.Log.Info().Uint64("user_id", id).Str("role", role.String()).Msg("user signed up")
	return s.Tokens.Issue(strings.TrimSpace(p.Name), id)
}

// Signin checks email and password.  Unknown email and wrong password both
// return ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, email, password string) (utils.AccessToken, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// match the bcrypt cost of the known-email path
			utils.VerifyPassword(s.unknownUserHash(), password)
			return utils.AccessToken{}, ErrInvalidCredentials
		}
		return utils.AccessToken{}, fmt.Errorf("lookup email: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return utils.AccessToken{}, ErrInvalidCredentials
	}
	return s.Tokens.Issue(u.Name, u.ID)
}

// GenerateProductKey mints the key that lets email sign up as role.
func (s *AuthService) GenerateProductKey(email string, role model.Role) (string, error) {
	if s.ProductKeySecret == "" {
		return "", errors.New("product key secret is not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	return utils.NewProductKey(email, role.String(), s.ProductKeySecret, s.BcryptCost)
}

// unknownUserHash is a throwaway hash at the configured cost, compared
// against when the email is not registered.
func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("unknown-user-placeholder", s.BcryptCost)
	})
	return s.dummyHash
}
