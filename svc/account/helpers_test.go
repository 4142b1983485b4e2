package account_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountkit/svc/account"
)

var epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// testClock is a settable time source shared by the issuer and its codecs.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *testClock { return &testClock{now: epoch} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() account.Config {
	return account.Config{
		ActivationSecret:     "activation-secret",
		AccessTokenSecret:    "access-secret",
		RefreshTokenSecret:   "refresh-secret",
		ForgotPasswordSecret: "forgot-secret",
		ActivationTTL:        5 * time.Minute,
		AccessTTL:            15 * time.Minute,
		RefreshTTL:           7 * 24 * time.Hour,
		ResetTTL:             5 * time.Minute,
		TokenIssuer:          "accountkit-test",
		ClientURL:            "https://app.example.com/",
		BcryptCost:           4,
	}
}

func newIssuer(t *testing.T, clock *testClock, opts ...account.IssuerOption) *account.Issuer {
	t.Helper()
	issuer, err := account.NewIssuer(testConfig(), append([]account.IssuerOption{account.WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	return issuer
}

func fixedCode(code string) account.IssuerOption {
	return account.WithCodeGenerator(func() (string, error) { return code, nil })
}

// StorageMock is a testify mock of account.Storage.
type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) GetUserByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*account.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StorageMock) GetUserByEmail(ctx context.Context, email string) (*account.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*account.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StorageMock) GetUserByPhone(ctx context.Context, phone string) (*account.User, error) {
	args := m.Called(ctx, phone)
	if u := args.Get(0); u != nil {
		return u.(*account.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StorageMock) CreateUser(ctx context.Context, user *account.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *StorageMock) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *StorageMock) ListUsers(ctx context.Context) ([]*account.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]*account.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MailerMock is a testify mock of account.Mailer.
type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendMail(ctx context.Context, mail account.Mail) error {
	return m.Called(ctx, mail).Error(0)
}

// recordingMailer captures every message it is asked to send.
type recordingMailer struct {
	mu    sync.Mutex
	mails []account.Mail
	err   error
}

func (r *recordingMailer) SendMail(_ context.Context, mail account.Mail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, mail)
	return r.err
}

func (r *recordingMailer) Last() account.Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.mails) == 0 {
		return account.Mail{}
	}
	return r.mails[len(r.mails)-1]
}

func (r *recordingMailer) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mails)
}
