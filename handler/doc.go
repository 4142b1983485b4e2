// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value decoded by the
// configured binders, and returns a Response:
//
//	type loginRequest struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	func login(ctx handler.Context, req loginRequest) handler.Response {
//		res, err := svc.Login(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(res)
//	}
//
//	r.Post("/login", handler.Wrap(login,
//		handler.WithBinders[handler.Context, loginRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, loginRequest](
//			handler.JSONErrorHandler[handler.Context](log, mapAccountError),
//		),
//	))
//
// Errors are rendered as {"error":{"code","message","details"}}.
// validator.ValidationErrors become 422 with per-field details, HTTPError
// carries its own status, binder failures become 400, 413 or 415, and any
// other error is a 500 whose message is not exposed.
package handler
