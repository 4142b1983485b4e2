// Package account exposes the account flows over HTTP as JSON endpoints.
//
//	POST /register         {name, email, password, phone_number}
//	POST /activate         {activationToken, activationCode}
//	POST /login            {email, password}
//	POST /forgot-password  {email}
//	POST /reset-password   {password, activationToken}
//	GET  /me               guarded
//	POST /logout           guarded
//	GET  /users            guarded
//
// Guarded routes read the access and refresh tokens from the accesstoken
// and refreshtoken request headers. When the access token had to be
// reissued from the refresh token, the new one is returned in the
// accesstoken response header.
//
// Successful responses are {"data": ...}; failures are
// {"error": {"code", "message", "details"}} with the status chosen by
// MapError. Login reports wrong credentials inside data with status 200.
//
//	mod := account.New(svc, guard, cfg, account.WithRateLimiter(limiter, nil))
//	r.Mount("/account", mod.Router())
package account
