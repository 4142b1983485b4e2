package account

import "time"

// Config holds the secrets and lifetimes of every token kind.
// Each kind has its own secret so a leaked key only compromises one flow.
type Config struct {
	ActivationSecret     string        `env:"ACTIVATION_SECRET,required"`
	AccessTokenSecret    string        `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshTokenSecret   string        `env:"REFRESH_TOKEN_SECRET,required"`
	ForgotPasswordSecret string        `env:"FORGOT_PASSWORD_SECRET,required"`
	ActivationTTL        time.Duration `env:"ACTIVATION_TOKEN_TTL" envDefault:"5m"`
	AccessTTL            time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL           time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	ResetTTL             time.Duration `env:"RESET_TOKEN_TTL" envDefault:"5m"`
	TokenIssuer          string        `env:"TOKEN_ISSUER" envDefault:"accountkit"`
	ClientURL            string        `env:"CLIENT_SIDE_URI" envDefault:"http://localhost:3000"`
	BcryptCost           int           `env:"BCRYPT_COST" envDefault:"10"`
	AccessTokenHeader    string        `env:"ACCESS_TOKEN_HEADER" envDefault:"accesstoken"`
	RefreshTokenHeader   string        `env:"REFRESH_TOKEN_HEADER" envDefault:"refreshtoken"`
}
