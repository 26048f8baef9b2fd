package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/skyreserve/skyreserve/internal/domain"
	"github.com/skyreserve/skyreserve/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, email, password string) (*Session, error)
	VerifyEmail(ctx context.Context, email, code string) (*Session, error)
	ResendCode(ctx context.Context, email string) error
	CurrentUser(ctx context.Context, id int64) (*domain.User, error)
}

// Mailer is the mail collaborator. Delivery failures never fail the
// operation that triggered them.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type AuthService struct {
	users   repository.UserRepository
	mailer  Mailer
	tokens  TokenIssuer
	codeTTL time.Duration
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the artifact handed back on successful login or verification.
type Session struct {
	Token string
	User  *domain.User
}

func NewAuthService(users repository.UserRepository, mailer Mailer, tokens TokenIssuer, codeTTL time.Duration) *AuthService {
	return &AuthService{users: users, mailer: mailer, tokens: tokens, codeTTL: codeTTL}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	code, codeHash, err := generateCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.codeTTL)

	user := &domain.User{
		Name:                  input.Name,
		Email:                 input.Email,
		PasswordHash:          string(passwordHash),
		VerificationCodeHash:  &codeHash,
		VerificationExpiresAt: &expiresAt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	// Best effort: the account exists even if the code never arrives.
	if err := s.mailer.Send(ctx, user.Email, "SkyReserve - Verify your email", verificationBody(user.Name, code)); err != nil {
		log.Printf("send verification email to %s: %v", user.Email, err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// Verification gates login even when the credential matched.
	if !user.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	return s.newSession(user)
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*Session, error) {
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and verification code are required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, err
	}
	if user.EmailVerified {
		return nil, domain.ErrAlreadyVerified
	}
	if user.VerificationCodeHash == nil || user.VerificationExpiresAt == nil {
		return nil, domain.ErrNoPendingCode
	}
	if !time.Now().Before(*user.VerificationExpiresAt) {
		return nil, domain.ErrCodeExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.VerificationCodeHash), []byte(code)); err != nil {
		return nil, domain.ErrInvalidCode
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.VerificationCodeHash = nil
	user.VerificationExpiresAt = nil

	return s.newSession(user)
}

// ResendCode issues a fresh code for an unverified account, replacing any
// pending one and restarting the expiry window.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnknownAccount
		}
		return err
	}
	if user.EmailVerified {
		return domain.ErrAlreadyVerified
	}

	code, codeHash, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.users.SetVerificationCode(ctx, user.ID, codeHash, time.Now().Add(s.codeTTL)); err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, user.Email, "SkyReserve - Verify your email", verificationBody(user.Name, code)); err != nil {
		log.Printf("send verification email to %s: %v", user.Email, err)
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) newSession(user *domain.User) (*Session, error) {
	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, User: user}, nil
}

// generateCode draws a 6-digit code uniformly from [100000,999999] and
// returns it with its bcrypt hash. Only the hash is ever persisted.
func generateCode() (string, string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hash), nil
}

func verificationBody(name, code string) string {
	return fmt.Sprintf(`Hi %s,

Welcome to SkyReserve!

Your verification code is: %s

This code will expire in 10 minutes.

If you did not try to sign up, you can ignore this email.

- SkyReserve`, name, code)
}

var _ AuthUseCase = (*AuthService)(nil)
