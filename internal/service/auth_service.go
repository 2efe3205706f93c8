package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/config"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/identity"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/ids"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/models"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

// AccountStore is the generic account store signup writes to.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (models.GenericAccount, error)
	Create(ctx context.Context, account models.GenericAccount) error
}

type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	identities identity.Chain
	accounts   AccountStore
	denylist   Denylist
	cfg        config.SecurityConfig
	log        zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires the authenticator. denylist may be nil, in which case
// tokens stay valid until they expire.
func NewAuthService(
	identities identity.Chain,
	accounts AccountStore,
	denylist Denylist,
	cfg config.SecurityConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		identities: identities,
		accounts:   accounts,
		denylist:   denylist,
		cfg:        cfg,
		log:        log,
	}
}

type Profile struct {
	ID    string
	Email string
	Name  string
	Role  models.Role
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      Profile
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	ident, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			// Burn the same hashing work as a real comparison.
			_, _ = security.VerifyPassword(input.Password, s.placeholderHash())
			s.log.Debug().Msg("login rejected: unknown email")
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup identity: %w", err)
	}

	ok, err := security.VerifyPassword(input.Password, ident.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).
			Str("origin", string(ident.Origin)).
			Str("user_id", ident.ID).
			Msg("stored password hash unreadable")
		return AuthResult{}, ErrInvalidCredentials
	}
	if !ok {
		s.log.Debug().Str("origin", string(ident.Origin)).Msg("login rejected: password mismatch")
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issue(ident)
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Phone    string
}

// Signup registers a generic account. Only the generic store is checked for
// an existing email.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	role := models.Role(strings.ToUpper(strings.TrimSpace(input.Role)))
	if email == "" || input.Password == "" || name == "" || role == "" {
		return AuthResult{}, fmt.Errorf("%w: email, password, name and role are required", ErrInvalidInput)
	}
	if !slices.Contains(s.cfg.SignupRoles, string(role)) {
		return AuthResult{}, fmt.Errorf("%w: role %s cannot be registered", ErrInvalidInput, role)
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, fmt.Errorf("check email: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	account := models.GenericAccount{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		Phone:        strings.TrimSpace(input.Phone),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("create account: %w", err)
	}

	s.log.Info().Str("user_id", account.ID).Str("role", string(role)).Msg("account registered")

	return s.issue(account.Identity())
}

// Resolve verifies a bearer token and re-fetches its subject from the store
// named by the token's origin claim. Every rejection is ErrInvalidToken; any
// other error is a store failure.
func (s *AuthService) Resolve(ctx context.Context, token string) (models.Actor, models.Identity, error) {
	claims, err := security.ParseAccessToken(token, s.cfg.JWTSecret)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return models.Actor{}, models.Identity{}, ErrInvalidToken
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return models.Actor{}, models.Identity{}, err
		}
		if revoked {
			s.log.Debug().Str("token_id", claims.ID).Msg("token rejected: revoked")
			return models.Actor{}, models.Identity{}, ErrInvalidToken
		}
	}

	ident, err := s.identities.FindByOrigin(ctx, models.Origin(claims.Origin), claims.UserID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			s.log.Debug().
				Str("origin", claims.Origin).
				Str("user_id", claims.UserID).
				Msg("token rejected: subject no longer exists")
			return models.Actor{}, models.Identity{}, ErrInvalidToken
		}
		return models.Actor{}, models.Identity{}, fmt.Errorf("resolve subject: %w", err)
	}

	role := models.Role(claims.Role)
	if s.cfg.RefreshRoleFromRecord {
		role = ident.Role
	}

	actor := models.Actor{
		ID:      ident.ID,
		Role:    role,
		Origin:  ident.Origin,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		actor.ExpiresAt = claims.ExpiresAt.Time
	}
	return actor, ident, nil
}

// Logout revokes the actor's token for the rest of its lifetime. Without a
// denylist it is a no-op.
func (s *AuthService) Logout(ctx context.Context, actor models.Actor) error {
	if s.denylist == nil || actor.TokenID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, actor.TokenID, time.Until(actor.ExpiresAt))
}

func (s *AuthService) issue(ident models.Identity) (AuthResult, error) {
	token, claims, err := security.GenerateAccessToken(
		s.cfg.JWTSecret,
		s.cfg.JWTIssuer,
		security.TokenSubject{
			UserID: ident.ID,
			Role:   string(ident.Role),
			Origin: string(ident.Origin),
		},
		s.cfg.TokenTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User: Profile{
			ID:    ident.ID,
			Email: ident.Email,
			Name:  ident.Name,
			Role:  ident.Role,
		},
	}, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := security.HashPassword(ids.New())
		if err != nil {
			s.log.Error().Err(err).Msg("placeholder hash failed")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
