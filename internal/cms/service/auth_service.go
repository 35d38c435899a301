package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

const minPasswordLength = 6

type AuthConfig struct {
	Secret     []byte
	SessionTTL time.Duration

	// RatePerMinute caps register and login attempts across all callers.
	RatePerMinute int
}

// AuthService registers users, checks passwords and issues the bearer
// tokens the transports turn back into a types.Session.
type AuthService struct {
	users   store.UserStore
	members store.MemberStore
	secret  []byte
	ttl     time.Duration
	limiter *rate.Limiter
	now     func() time.Time
}

type sessionClaims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

func NewAuthService(users store.UserStore, members store.MemberStore, cfg AuthConfig) *AuthService {
	perMin := cfg.RatePerMinute
	if perMin <= 0 {
		perMin = 10
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		users:   users,
		members: members,
		secret:  cfg.Secret,
		ttl:     ttl,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// HashPassword is exposed for seeding.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates a non-admin user. The username must be the email or
// mobile number of someone already on the member roster.
func (a *AuthService) Register(ctx context.Context, creds types.Credentials) (types.User, error) {
	if !a.limiter.Allow() {
		return types.User{}, ErrRateLimited
	}

	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return types.User{}, ErrInvalidCredentials
	}
	if len(creds.Password) < minPasswordLength {
		return types.User{}, ErrWeakPassword
	}

	member, err := a.members.FindByContact(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return types.User{}, ErrNotAMember
	}
	if err != nil {
		return types.User{}, err
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		return types.User{}, err
	}

	u := types.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		MemberID:     member.ID,
		CreatedAt:    a.now(),
	}
	if err := a.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrUsernameTaken
		}
		return types.User{}, err
	}
	return u, nil
}

func (a *AuthService) Login(ctx context.Context, creds types.Credentials) (types.LoginResponse, error) {
	if !a.limiter.Allow() {
		return types.LoginResponse{}, ErrRateLimited
	}

	u, err := a.users.GetUserByUsername(ctx, strings.TrimSpace(creds.Username))
	if errors.Is(err, store.ErrNotFound) {
		return types.LoginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return types.LoginResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		return types.LoginResponse{}, ErrInvalidCredentials
	}

	sess := types.Session{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
	token, exp, err := a.IssueToken(sess)
	if err != nil {
		return types.LoginResponse{}, err
	}
	return types.LoginResponse{Token: token, ExpiresAt: exp, Session: sess}, nil
}

// ResetPassword stores a new hash for req.Username. Admins may reset anyone;
// other users only themselves.
func (a *AuthService) ResetPassword(ctx context.Context, sess types.Session, req types.PasswordReset) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !a.limiter.Allow() {
		return ErrRateLimited
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return invalid("username is required")
	}
	if !sess.IsAdmin && username != sess.Username {
		return ErrForbidden
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(req.NewPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := a.users.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("reset password for %s: %w", username, err)
	}
	return nil
}

// IssueToken signs an HS256 token for sess.
func (a *AuthService) IssueToken(sess types.Session) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := sessionClaims{
		Username: sess.Username,
		Admin:    sess.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken validates a bearer token and returns the session it carries.
func (a *AuthService) ParseToken(token string) (types.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return types.Session{}, ErrUnauthenticated
	}
	return types.Session{UserID: claims.Subject, Username: claims.Username, IsAdmin: claims.Admin}, nil
}
