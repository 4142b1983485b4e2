package account

import (
	"time"

	"github.com/google/uuid"
)

// User is a persisted account. PasswordHash never leaves the process.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PendingUser is a registration that has not been activated yet.
// It only exists inside an activation token.
type PendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

// SessionTokenPair is what a successful login hands out.
type SessionTokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthContext is attached to a request once the guard has accepted it.
type AuthContext struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

// ErrorType is an inline failure returned as data instead of an error.
type ErrorType struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Inputs

type RegisterInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
}

type ActivationInput struct {
	ActivationToken string `json:"activationToken" validate:"required"`
	ActivationCode  string `json:"activationCode" validate:"required,len=4,digits"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ActivationToken string `json:"activationToken" validate:"required"`
}

// Results

type RegisterResult struct {
	ActivationToken string `json:"activation_token"`
}

type ActivationResult struct {
	User *User `json:"user"`
}

// LoginResult is returned by Login and GetLoggedInUser. Bad credentials
// populate Error and leave everything else empty.
type LoginResult struct {
	User         *User      `json:"user"`
	AccessToken  string     `json:"accessToken,omitempty"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	Error        *ErrorType `json:"error,omitempty"`
}

type MessageResult struct {
	Message string `json:"message"`
}

type ResetPasswordResult struct {
	User *User `json:"user"`
}
