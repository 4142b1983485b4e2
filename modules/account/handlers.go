package account

import (
	"github.com/dmitrymomot/accountkit/handler"
	accountsvc "github.com/dmitrymomot/accountkit/svc/account"
)

type usersResponse struct {
	Users []*accountsvc.User `json:"users"`
}

func (m *Module) register(ctx handler.Context, req accountsvc.RegisterInput) handler.Response {
	res, err := m.svc.Register(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}

func (m *Module) activate(ctx handler.Context, req accountsvc.ActivationInput) handler.Response {
	res, err := m.svc.ActivateUser(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}

// login answers 200 for bad credentials too; the result carries the error.
func (m *Module) login(ctx handler.Context, req accountsvc.LoginInput) handler.Response {
	res, err := m.svc.Login(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}

func (m *Module) forgotPassword(ctx handler.Context, req accountsvc.ForgotPasswordInput) handler.Response {
	res, err := m.svc.ForgotPassword(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}

func (m *Module) resetPassword(ctx handler.Context, req accountsvc.ResetPasswordInput) handler.Response {
	res, err := m.svc.ResetPassword(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}

func (m *Module) me(ctx handler.Context, _ struct{}) handler.Response {
	res, err := m.svc.GetLoggedInUser(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}

func (m *Module) logout(ctx handler.Context, _ struct{}) handler.Response {
	_, res := m.svc.Logout(ctx)
	// RequireAuth may have reissued an access token for this request.
	ctx.ResponseWriter().Header().Del(m.cfg.AccessTokenHeader)
	return handler.JSON(res)
}

func (m *Module) users(ctx handler.Context, _ struct{}) handler.Response {
	users, err := m.svc.ListUsers(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(usersResponse{Users: users})
}
