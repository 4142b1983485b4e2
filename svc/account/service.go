package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/accountkit/pkg/logger"
	"github.com/dmitrymomot/accountkit/pkg/sanitizer"
	"github.com/dmitrymomot/accountkit/pkg/validator"
)

// Client-facing messages.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgCheckEmailForReset = "Please check your email to reset your password"
	MsgLoggedOut          = "Logged out successfully!"

	SubjectActivation     = "Activate your account"
	SubjectForgotPassword = "Reset your password"
)

// Service implements the account flows: register, activate, login,
// forgot/reset password and logout.
type Service struct {
	store       Storage
	issuer      *Issuer
	mailer      Mailer
	logger      *slog.Logger
	metrics     *Metrics
	bcryptCost  int
	mailTimeout time.Duration

	mailWG    sync.WaitGroup
	dummyOnce sync.Once
	dummyHash []byte
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMailer sets the outbound mail collaborator.
func WithMailer(m Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBcryptCost sets the bcrypt cost for password hashing.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithMailTimeout bounds each background mail dispatch.
func WithMailTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.mailTimeout = d
		}
	}
}

// NewService creates the account flow controller.
func NewService(store Storage, issuer *Issuer, opts ...Option) *Service {
	s := &Service{
		store:       store,
		issuer:      issuer,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		bcryptCost:  bcrypt.DefaultCost,
		mailTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register checks uniqueness, hashes the password and returns a signed
// activation token. The activation code is mailed to the user. No user row
// is created until ActivateUser.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Name = sanitizer.NormalizeName(in.Name)
	in.Email = sanitizer.NormalizeEmail(in.Email)
	in.PhoneNumber = sanitizer.NormalizePhone(in.PhoneNumber)

	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}
	if in.PhoneNumber != "" {
		_, err := s.store.GetUserByPhone(ctx, in.PhoneNumber)
		if err == nil {
			s.logger.InfoContext(ctx, "registration rejected: phone in use",
				logger.Phone(in.PhoneNumber),
				logger.Component("account"),
			)
			return nil, ErrDuplicatePhone
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to check phone number: %w", err)
		}
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	token, code, err := s.issuer.IssueActivation(PendingUser{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, Mail{
		Recipient:  in.Email,
		Subject:    SubjectActivation,
		Template:   TemplateActivation,
		Name:       in.Name,
		CodeOrLink: code,
	})

	return &RegisterResult{ActivationToken: token}, nil
}

// ActivateUser verifies the activation token and code and persists the user.
func (s *Service) ActivateUser(ctx context.Context, in ActivationInput) (*ActivationResult, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	claims, err := s.issuer.VerifyActivation(in.ActivationToken)
	if err != nil {
		s.metrics.activation("invalid_token")
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(claims.ActivationCode), []byte(in.ActivationCode)) != 1 {
		s.metrics.activation("invalid_code")
		return nil, ErrInvalidActivationCode
	}

	if err := s.ensureEmailFree(ctx, claims.User.Email); err != nil {
		s.metrics.activation("conflict")
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Name:         claims.User.Name,
		Email:        claims.User.Email,
		PasswordHash: claims.User.PasswordHash,
		PhoneNumber:  claims.User.PhoneNumber,
		CreatedAt:    s.issuer.now().UTC(),
	}

	// The store's unique constraints close the race between the check above and this insert.
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			s.metrics.activation("conflict")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.activation("activated")
	s.logger.InfoContext(ctx, "user activated",
		logger.UserID(user.ID.String()),
		logger.Email(user.Email),
		logger.Phone(user.PhoneNumber),
		logger.Component("account"),
	)

	return &ActivationResult{User: user}, nil
}

// Login never reports bad credentials as an error: the result carries
// MsgInvalidCredentials instead, for unknown emails and wrong passwords alike.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = sanitizer.NormalizeEmail(in.Email)

	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		// Same bcrypt work as a real comparison keeps response time flat.
		_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(in.Password))
		s.metrics.login("invalid_credentials")
		return invalidCredentials(), nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.metrics.login("invalid_credentials")
		return invalidCredentials(), nil
	}

	pair, err := s.issuer.IssueSessionPair(user)
	if err != nil {
		return nil, err
	}

	s.metrics.login("success")
	return &LoginResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// GetLoggedInUser returns the user and tokens the guard attached to ctx.
func (s *Service) GetLoggedInUser(ctx context.Context) (*LoginResult, error) {
	auth := AuthFromContext(ctx)
	if auth == nil || auth.User == nil {
		return nil, ErrLoginRequired
	}

	return &LoginResult{
		User:         auth.User,
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
	}, nil
}

// ForgotPassword mails a reset link to a known address.
// Mail delivery problems are logged and never reach the caller.
func (s *Service) ForgotPassword(ctx context.Context, in ForgotPasswordInput) (*MessageResult, error) {
	in.Email = sanitizer.NormalizeEmail(in.Email)

	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	_, link, err := s.issuer.IssueResetLink(user)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, Mail{
		Recipient:  user.Email,
		Subject:    SubjectForgotPassword,
		Template:   TemplateForgotPassword,
		Name:       user.Name,
		CodeOrLink: link,
	})

	return &MessageResult{Message: MsgCheckEmailForReset}, nil
}

// ResetPassword sets a new password for the account named by a reset token.
// Tokens are not revoked after use: the same link keeps working until it expires.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) (*ResetPasswordResult, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	claims, err := s.issuer.VerifyReset(in.ActivationToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset",
		logger.UserID(user.ID.String()),
		logger.Component("account"),
	)

	return &ResetPasswordResult{User: user}, nil
}

// Logout detaches the authenticated user from ctx. Tokens are stateless, so
// the caller is expected to discard them.
func (s *Service) Logout(ctx context.Context) (context.Context, *MessageResult) {
	if user := UserFromContext(ctx); user != nil {
		s.logger.InfoContext(ctx, "user logged out",
			logger.UserID(user.ID.String()),
			logger.Component("account"),
		)
	}
	return WithAuthContext(ctx, nil), &MessageResult{Message: MsgLoggedOut}
}

// ListUsers returns every persisted user.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Wait blocks until every in-flight mail dispatch has finished.
func (s *Service) Wait() {
	s.mailWG.Wait()
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return ErrDuplicateEmail
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validator.ValidationErrors{{
			Field:          "password",
			Message:        "must be at most 72 bytes",
			TranslationKey: "validation.max",
		}}
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
	})
	return s.dummyHash
}

// dispatch sends mail in the background. Failures are logged and counted only.
func (s *Service) dispatch(ctx context.Context, mail Mail) {
	if s.mailer == nil {
		s.logger.WarnContext(ctx, "no mailer configured, dropping message",
			logger.Event(mail.Template),
			logger.Email(mail.Recipient),
			logger.Component("account"),
		)
		return
	}

	s.mailWG.Add(1)
	go func() {
		defer s.mailWG.Done()

		mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				s.logger.ErrorContext(mailCtx, "mail dispatch panicked",
					slog.Any("panic", r),
					logger.Event(mail.Template),
					logger.Component("account"),
				)
			}
		}()

		err := s.mailer.SendMail(mailCtx, mail)
		s.metrics.mailDispatch(mail.Template, err)
		if err != nil {
			s.logger.ErrorContext(mailCtx, "failed to send account mail",
				logger.Error(err),
				logger.Event(mail.Template),
				logger.Email(mail.Recipient),
				logger.Component("account"),
			)
		}
	}()
}

func invalidCredentials() *LoginResult {
	return &LoginResult{Error: &ErrorType{Message: MsgInvalidCredentials, Code: "invalid_credentials"}}
}
