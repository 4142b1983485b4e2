// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5.
//
// A Service is bound to one signing key and one token lifetime, so an
// application issuing several kinds of tokens (activation, access, refresh,
// password reset) creates one Service per kind. Generate stamps the
// registered "iat", "exp" and "jti" claims; Parse checks the signature
// first and the temporal claims second, which means a correctly signed but
// stale token is reported as ErrExpiredToken while a tampered one is
// reported as ErrInvalidSignature.
//
// ParseUnverified decodes a payload without any verification. It exists for
// flows that must inspect claims (for example "exp") before deciding how to
// verify a token.
//
// # Usage
//
//	type AccessClaims struct {
//		jwt.StandardClaims
//		Kind string `json:"knd"`
//	}
//
//	svc, err := jwt.NewFromString(os.Getenv("ACCESS_TOKEN_SECRET"), 15*time.Minute)
//	if err != nil {
//		// handle error
//	}
//
//	claims := &AccessClaims{Kind: "access"}
//	claims.Subject = userID
//	token, err := svc.Generate(claims)
//
//	var parsed AccessClaims
//	if err := svc.Parse(token, &parsed); errors.Is(err, jwt.ErrExpiredToken) {
//		// refresh
//	}
//
// Token extractors (BearerTokenExtractor, HeaderTokenExtractor) pull raw
// tokens out of HTTP requests; FirstOf chains them.
//
// # Error Handling
//
// All failures are sentinel errors comparable with errors.Is.
package jwt
