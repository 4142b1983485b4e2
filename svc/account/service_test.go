package account_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/accountkit/pkg/validator"
	"github.com/dmitrymomot/accountkit/svc/account"
	"github.com/dmitrymomot/accountkit/svc/account/memstore"
)

type fixture struct {
	clock  *testClock
	store  *memstore.Store
	mailer *recordingMailer
	issuer *account.Issuer
	svc    *account.Service
	guard  *account.Guard
}

func newFixture(t *testing.T, opts ...account.Option) *fixture {
	t.Helper()
	f := &fixture{
		clock:  newClock(),
		store:  memstore.New(),
		mailer: &recordingMailer{},
	}
	f.issuer = newIssuer(t, f.clock, fixedCode("4821"))
	f.svc = account.NewService(f.store, f.issuer, append([]account.Option{
		account.WithMailer(f.mailer),
		account.WithBcryptCost(bcrypt.MinCost),
	}, opts...)...)
	f.guard = account.NewGuard(f.store, f.issuer)
	return f
}

// activeUser registers and activates an account, returning the password used.
func (f *fixture) activeUser(t *testing.T, email, phone string) (*account.User, string) {
	t.Helper()
	ctx := context.Background()
	const password = "correct-horse"

	reg, err := f.svc.Register(ctx, account.RegisterInput{
		Name: "Alice", Email: email, Password: password, PhoneNumber: phone,
	})
	require.NoError(t, err)

	res, err := f.svc.ActivateUser(ctx, account.ActivationInput{
		ActivationToken: reg.ActivationToken,
		ActivationCode:  "4821",
	})
	require.NoError(t, err)
	return res.User, password
}

func TestService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("issues token and mails the code without persisting", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		res, err := f.svc.Register(ctx, account.RegisterInput{
			Name:        "  Alice   Smith ",
			Email:       " Alice@Example.com ",
			Password:    "supersecret",
			PhoneNumber: "+1 (555) 123-4567",
		})
		require.NoError(t, err)
		require.NotEmpty(t, res.ActivationToken)
		assert.Zero(t, f.store.Len())

		claims, err := f.issuer.VerifyActivation(res.ActivationToken)
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", claims.User.Name)
		assert.Equal(t, "alice@example.com", claims.User.Email)
		assert.Equal(t, "15551234567", claims.User.PhoneNumber)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(claims.User.PasswordHash), []byte("supersecret")))

		f.svc.Wait()
		mail := f.mailer.Last()
		assert.Equal(t, "alice@example.com", mail.Recipient)
		assert.Equal(t, account.SubjectActivation, mail.Subject)
		assert.Equal(t, account.TemplateActivation, mail.Template)
		assert.Equal(t, "Alice Smith", mail.Name)
		assert.Equal(t, "4821", mail.CodeOrLink)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.activeUser(t, "alice@example.com", "")

		_, err := f.svc.Register(ctx, account.RegisterInput{Name: "A", Email: "ALICE@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, account.ErrDuplicateEmail)
		assert.EqualError(t, err, "User already exist with this email!")
	})

	t.Run("duplicate phone", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.activeUser(t, "alice@example.com", "15551234567")

		_, err := f.svc.Register(ctx, account.RegisterInput{
			Name: "B", Email: "bob@example.com", Password: "supersecret", PhoneNumber: "1-555-123-4567",
		})
		assert.ErrorIs(t, err, account.ErrDuplicatePhone)
		assert.ErrorIs(t, err, account.ErrConflict)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Register(ctx, account.RegisterInput{Name: "", Email: "nope", Password: "short", PhoneNumber: "12"})
		require.True(t, validator.IsValidationError(err))
		verrs := validator.ExtractValidationErrors(err)
		assert.True(t, verrs.Has("name"))
		assert.True(t, verrs.Has("email"))
		assert.True(t, verrs.Has("password"))
		assert.True(t, verrs.Has("phone_number"))
		assert.Zero(t, f.mailer.Count())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		store := &StorageMock{}
		store.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, assert.AnError)
		svc := account.NewService(store, newIssuer(t, newClock()))

		_, err := svc.Register(ctx, account.RegisterInput{Name: "A", Email: "a@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, assert.AnError)
		store.AssertExpectations(t)
	})
}

func TestService_ActivateUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	register := func(t *testing.T, f *fixture, email string) string {
		t.Helper()
		res, err := f.svc.Register(ctx, account.RegisterInput{Name: "Alice", Email: email, Password: "supersecret"})
		require.NoError(t, err)
		return res.ActivationToken
	}

	t.Run("creates the user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		token := register(t, f, "alice@example.com")

		res, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: token, ActivationCode: "4821"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, res.User.ID)
		assert.Equal(t, "alice@example.com", res.User.Email)
		assert.Equal(t, epoch, res.User.CreatedAt)
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("every other code is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		token := register(t, f, "alice@example.com")

		for _, code := range []string{"0000", "1000", "4820", "4822", "1284", "9999"} {
			_, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: token, ActivationCode: code})
			assert.ErrorIs(t, err, account.ErrInvalidActivationCode, code)
			assert.ErrorIs(t, err, account.ErrInvalidCode, code)
		}
		assert.Zero(t, f.store.Len())
	})

	t.Run("malformed code fails validation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		token := register(t, f, "alice@example.com")

		for _, code := range []string{"", "482", "48210", "48a1"} {
			_, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: token, ActivationCode: code})
			assert.True(t, validator.IsValidationError(err), code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		token := register(t, f, "alice@example.com")

		f.clock.Advance(5 * time.Minute)
		_, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: token, ActivationCode: "4821"})
		assert.ErrorIs(t, err, account.ErrExpiredToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		token := register(t, f, "alice@example.com")

		_, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: token + "x", ActivationCode: "4821"})
		assert.ErrorIs(t, err, account.ErrInvalidToken)
	})

	t.Run("second pending registration loses", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		first := register(t, f, "alice@example.com")
		second := register(t, f, "alice@example.com")

		_, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: first, ActivationCode: "4821"})
		require.NoError(t, err)
		_, err = f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: second, ActivationCode: "4821"})
		assert.ErrorIs(t, err, account.ErrDuplicateEmail)
		assert.Equal(t, 1, f.store.Len())
	})

	t.Run("insert race reported by the store", func(t *testing.T) {
		t.Parallel()
		clock := newClock()
		issuer := newIssuer(t, clock, fixedCode("4821"))
		token, _, err := issuer.IssueActivation(account.PendingUser{Email: "a@example.com", PhoneNumber: "15551234567"})
		require.NoError(t, err)

		store := &StorageMock{}
		store.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, account.ErrUserNotFound)
		store.On("CreateUser", mock.Anything, mock.AnythingOfType("*account.User")).Return(account.ErrDuplicatePhone)

		_, err = account.NewService(store, issuer).ActivateUser(ctx, account.ActivationInput{ActivationToken: token, ActivationCode: "4821"})
		assert.ErrorIs(t, err, account.ErrDuplicatePhone)
		store.AssertExpectations(t)
	})

	t.Run("outcomes are counted", func(t *testing.T) {
		t.Parallel()
		reg := prometheus.NewRegistry()
		f := newFixture(t, account.WithMetrics(account.NewMetrics(reg)))
		token := register(t, f, "alice@example.com")

		_, _ = f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: token, ActivationCode: "1111"})
		_, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: token, ActivationCode: "4821"})
		require.NoError(t, err)

		count, err := testutil.GatherAndCount(reg, "accountkit_activations_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user, password := f.activeUser(t, "alice@example.com", "")

		res, err := f.svc.Login(ctx, account.LoginInput{Email: " ALICE@example.com", Password: password})
		require.NoError(t, err)
		require.Nil(t, res.Error)
		assert.Equal(t, user.ID, res.User.ID)

		id, err := f.issuer.VerifyAccess(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
		id, err = f.issuer.VerifyRefresh(res.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.activeUser(t, "alice@example.com", "")

		wrong, err := f.svc.Login(ctx, account.LoginInput{Email: "alice@example.com", Password: "nope-nope"})
		require.NoError(t, err)
		unknown, err := f.svc.Login(ctx, account.LoginInput{Email: "bob@example.com", Password: "nope-nope"})
		require.NoError(t, err)

		for _, res := range []*account.LoginResult{wrong, unknown} {
			require.NotNil(t, res.Error)
			assert.Equal(t, account.MsgInvalidCredentials, res.Error.Message)
			assert.Nil(t, res.User)
			assert.Empty(t, res.AccessToken)
			assert.Empty(t, res.RefreshToken)
		}
		assert.Equal(t, wrong, unknown)
	})

	t.Run("empty fields fail validation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Login(ctx, account.LoginInput{})
		require.True(t, validator.IsValidationError(err))
		assert.True(t, validator.ExtractValidationErrors(err).Has("email"))
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		store := &StorageMock{}
		store.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, assert.AnError)

		_, err := account.NewService(store, newIssuer(t, newClock())).Login(ctx, account.LoginInput{Email: "a@example.com", Password: "x"})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestService_GetLoggedInUserAndLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.GetLoggedInUser(ctx)
	assert.ErrorIs(t, err, account.ErrLoginRequired)

	user, password := f.activeUser(t, "alice@example.com", "")
	login, err := f.svc.Login(ctx, account.LoginInput{Email: user.Email, Password: password})
	require.NoError(t, err)

	auth, err := f.guard.Authenticate(ctx, login.AccessToken, login.RefreshToken)
	require.NoError(t, err)
	authed := account.WithAuthContext(ctx, &auth.AuthContext)

	me, err := f.svc.GetLoggedInUser(authed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.User.ID)
	assert.Equal(t, login.AccessToken, me.AccessToken)
	assert.Equal(t, login.RefreshToken, me.RefreshToken)

	loggedOut, msg := f.svc.Logout(authed)
	assert.Equal(t, account.MsgLoggedOut, msg.Message)
	assert.Nil(t, account.UserFromContext(loggedOut))
	_, err = f.svc.GetLoggedInUser(loggedOut)
	assert.ErrorIs(t, err, account.ErrLoginRequired)

	// Stateless: the old tokens still authenticate.
	_, err = f.guard.Authenticate(ctx, login.AccessToken, login.RefreshToken)
	assert.NoError(t, err)
}

func TestService_ForgotAndResetPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	resetToken := func(t *testing.T, f *fixture) string {
		t.Helper()
		f.svc.Wait()
		u, err := url.Parse(f.mailer.Last().CodeOrLink)
		require.NoError(t, err)
		return u.Query().Get("token")
	}

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.ForgotPassword(ctx, account.ForgotPasswordInput{Email: "ghost@example.com"})
		assert.ErrorIs(t, err, account.ErrUserNotFound)
		assert.EqualError(t, err, "User not found with this email")
		f.svc.Wait()
		assert.Zero(t, f.mailer.Count())
	})

	t.Run("mails a link and the token resets the password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user, oldPassword := f.activeUser(t, "alice@example.com", "")

		msg, err := f.svc.ForgotPassword(ctx, account.ForgotPasswordInput{Email: "Alice@Example.com"})
		require.NoError(t, err)
		assert.Equal(t, account.MsgCheckEmailForReset, msg.Message)

		f.svc.Wait()
		mail := f.mailer.Last()
		assert.Equal(t, account.TemplateForgotPassword, mail.Template)
		assert.Equal(t, account.SubjectForgotPassword, mail.Subject)
		assert.Contains(t, mail.CodeOrLink, "https://app.example.com/reset-password?token=")

		res, err := f.svc.ResetPassword(ctx, account.ResetPasswordInput{Password: "brand-new-pass", ActivationToken: resetToken(t, f)})
		require.NoError(t, err)
		assert.Equal(t, user.ID, res.User.ID)

		old, err := f.svc.Login(ctx, account.LoginInput{Email: user.Email, Password: oldPassword})
		require.NoError(t, err)
		assert.NotNil(t, old.Error)

		fresh, err := f.svc.Login(ctx, account.LoginInput{Email: user.Email, Password: "brand-new-pass"})
		require.NoError(t, err)
		assert.Nil(t, fresh.Error)
	})

	t.Run("token is reusable until it expires", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user, _ := f.activeUser(t, "alice@example.com", "")

		_, err := f.svc.ForgotPassword(ctx, account.ForgotPasswordInput{Email: user.Email})
		require.NoError(t, err)
		token := resetToken(t, f)

		_, err = f.svc.ResetPassword(ctx, account.ResetPasswordInput{Password: "first-new-pass", ActivationToken: token})
		require.NoError(t, err)
		_, err = f.svc.ResetPassword(ctx, account.ResetPasswordInput{Password: "second-new-pass", ActivationToken: token})
		require.NoError(t, err)

		f.clock.Advance(5 * time.Minute)
		_, err = f.svc.ResetPassword(ctx, account.ResetPasswordInput{Password: "third-new-pass", ActivationToken: token})
		assert.ErrorIs(t, err, account.ErrExpiredToken)
	})

	t.Run("activation token cannot reset", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		reg, err := f.svc.Register(ctx, account.RegisterInput{Name: "A", Email: "a@example.com", Password: "supersecret"})
		require.NoError(t, err)

		_, err = f.svc.ResetPassword(ctx, account.ResetPasswordInput{Password: "brand-new-pass", ActivationToken: reg.ActivationToken})
		assert.ErrorIs(t, err, account.ErrInvalidToken)
	})

	t.Run("user removed before reset", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user, _ := f.activeUser(t, "alice@example.com", "")
		_, err := f.svc.ForgotPassword(ctx, account.ForgotPasswordInput{Email: user.Email})
		require.NoError(t, err)
		token := resetToken(t, f)

		f.store.Reset()
		_, err = f.svc.ResetPassword(ctx, account.ResetPasswordInput{Password: "brand-new-pass", ActivationToken: token})
		assert.ErrorIs(t, err, account.ErrUserNotFound)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.ResetPassword(ctx, account.ResetPasswordInput{Password: "short", ActivationToken: "x"})
		assert.True(t, validator.IsValidationError(err))
	})
}

func TestService_MailFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mailer := &MailerMock{}
	mailer.On("SendMail", mock.Anything, mock.MatchedBy(func(m account.Mail) bool {
		return m.Template == account.TemplateActivation
	})).Return(assert.AnError).Once()

	reg := prometheus.NewRegistry()
	svc := account.NewService(memstore.New(), newIssuer(t, newClock()),
		account.WithMailer(mailer),
		account.WithBcryptCost(bcrypt.MinCost),
		account.WithMetrics(account.NewMetrics(reg)),
	)

	res, err := svc.Register(ctx, account.RegisterInput{Name: "A", Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ActivationToken)

	svc.Wait()
	mailer.AssertExpectations(t)

	count, err := testutil.GatherAndCount(reg, "accountkit_mail_dispatch_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_MailOutlivesRequestContext(t *testing.T) {
	t.Parallel()

	mailer := &MailerMock{}
	mailer.On("SendMail", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil).Once()

	svc := account.NewService(memstore.New(), newIssuer(t, newClock()),
		account.WithMailer(mailer),
		account.WithBcryptCost(bcrypt.MinCost),
	)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Register(ctx, account.RegisterInput{Name: "A", Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)
	cancel()

	svc.Wait()
	mailer.AssertExpectations(t)
}

func TestService_ListUsers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.activeUser(t, "a@example.com", "")
	f.activeUser(t, "b@example.com", "")

	users, err := f.svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
}

func TestService_AliceJourney(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	reg, err := f.svc.Register(ctx, account.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "wonderland"})
	require.NoError(t, err)
	f.svc.Wait()
	code := f.mailer.Last().CodeOrLink

	f.clock.Advance(2 * time.Minute)
	activated, err := f.svc.ActivateUser(ctx, account.ActivationInput{ActivationToken: reg.ActivationToken, ActivationCode: code})
	require.NoError(t, err)

	login, err := f.svc.Login(ctx, account.LoginInput{Email: "alice@example.com", Password: "wonderland"})
	require.NoError(t, err)
	require.Nil(t, login.Error)

	// An hour later the access token has expired but the refresh token carries her through.
	f.clock.Advance(time.Hour)
	auth, err := f.guard.Authenticate(ctx, login.AccessToken, login.RefreshToken)
	require.NoError(t, err)
	require.True(t, auth.Refreshed())

	me, err := f.svc.GetLoggedInUser(account.WithAuthContext(ctx, &auth.AuthContext))
	require.NoError(t, err)
	assert.Equal(t, activated.User.ID, me.User.ID)
	assert.Equal(t, auth.RefreshedAccessToken, me.AccessToken)
}
