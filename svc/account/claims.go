package account

import (
	"github.com/dmitrymomot/accountkit/pkg/jwt"
)

// TokenKind discriminates claim payloads so a token minted for one flow is
// rejected by every other flow.
type TokenKind string

const (
	KindActivation TokenKind = "activation"
	KindAccess     TokenKind = "access"
	KindRefresh    TokenKind = "refresh"
	KindReset      TokenKind = "reset"
)

// ActivationClaims carries a pending registration and its code.
type ActivationClaims struct {
	jwt.StandardClaims
	Kind           TokenKind   `json:"knd"`
	User           PendingUser `json:"pending_user"`
	ActivationCode string      `json:"activation_code"`
}

// SessionClaims is shared by access and refresh tokens; Subject is the user id.
type SessionClaims struct {
	jwt.StandardClaims
	Kind TokenKind `json:"knd"`
}

// ResetClaims identifies the account whose password may be reset.
// The user is re-read from the store at reset time.
type ResetClaims struct {
	jwt.StandardClaims
	Kind  TokenKind `json:"knd"`
	Email string    `json:"email"`
}
