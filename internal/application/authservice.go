package application

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// Validation and auth failures exposed to the HTTP layer. Handlers map these
// to 4xx responses; anything else is a 500.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired code")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionInvalid     = errors.New("session invalid or expired")
)

const (
	sessionTTL         = 7 * 24 * time.Hour
	verificationExpiry = 30 * time.Minute
	resetExpiry        = 15 * time.Minute
)

// AuthService implements registration, email verification, login sessions,
// and password reset.
type AuthService struct {
	users    driven.UserStore
	sessions driven.SessionStore
	mailer   driven.Mailer
}

// NewAuthService creates an AuthService.
func NewAuthService(users driven.UserStore, sessions driven.SessionStore, mailer driven.Mailer) *AuthService {
	return &AuthService{users: users, sessions: sessions, mailer: mailer}
}

// generateOTP returns a random 6-digit code, zero-padded.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Register creates an unverified account and emails a verification code.
// The mail send is best-effort; the caller can resend.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(verificationExpiry)

	user, err := s.users.Create(ctx, model.User{
		Username:            username,
		Email:               email,
		PasswordHash:        string(hash),
		VerificationToken:   code,
		VerificationExpires: &expires,
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, email, username, code); err != nil {
		slog.Warn("verification mail not sent", "email", email, "error", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// VerifyEmail checks the OTP, marks the account verified, and sends the
// welcome mail.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return nil
	}
	if !user.VerificationTokenValid(code, time.Now()) {
		return ErrInvalidToken
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationExpires = nil
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	if err := s.mailer.SendWelcome(ctx, user.Email, user.Username); err != nil {
		slog.Warn("welcome mail not sent", "email", user.Email, "error", err)
	}

	slog.Info("email verified", "user_id", user.ID)
	return nil
}

// ResendVerification issues a fresh OTP for an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return fmt.Errorf("%w: account already verified", ErrInvalidInput)
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	expires := time.Now().Add(verificationExpiry)
	user.VerificationToken = code
	user.VerificationExpires = &expires
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	return s.mailer.SendVerification(ctx, user.Email, user.Username, code)
}

// Login authenticates by email and password and returns a new session.
// Unverified accounts are refused with ErrNotVerified.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, nil, ErrNotVerified
	}

	session := model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &session, user, nil
}

// Logout deletes the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its user. Expired sessions are
// deleted on sight.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionInvalid
	}
	if session.Expired(time.Now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionInvalid
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSessionInvalid
	}
	return user, nil
}

// UsernameAvailable reports whether the username is free to register.
func (s *AuthService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	return user == nil, nil
}

// RequestPasswordReset issues a reset OTP for the account, if it exists.
// The caller should respond identically whether or not the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetExpiry)
	user.ResetToken = code
	user.ResetExpires = &expires
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	return s.mailer.SendPasswordReset(ctx, user.Email, user.Username, code)
}

// ResetPassword validates the OTP and replaces the password. The OTP is
// single-use.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !user.ResetTokenValid(code, time.Now()) {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetExpires = nil
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}
