package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

const (
	accessTokenCookie  = "admin_access_token"
	refreshTokenCookie = "admin_refresh_token"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	cfg         *cfg.AuthCfg
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, cfg *cfg.AuthCfg, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, cfg: cfg, logger: logger}
}

// signIn
//
//	@Summary		Вход администратора
//	@Description	Устанавливает HttpOnly cookie admin_access_token и admin_refresh_token.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			body	body		signInReq	true	"Email и пароль"
//	@Success		200		{object}	SignInResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/admin/auth [post]
func (a *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var body signInReq
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	session, err := a.authUsecase.SignIn(r.Context(), body.Email.String(), body.Password.String())
	if err != nil {
		a.logger.Warnf("admin sign in failed: %v", err)
		WriteError(w, err)
		return
	}

	http.SetCookie(w, a.cookie(accessTokenCookie, session.AccessToken, session.ExpiresIn))
	http.SetCookie(w, a.cookie(refreshTokenCookie, session.RefreshToken, int(a.cfg.RefreshTTL.Seconds())))

	WriteSuccess(w, http.StatusOK, SignInResponse{
		Success: true,
		User:    AdminUserResponse{ID: session.User.ID, Email: session.User.Email},
	})
}

// signOut
//
//	@Summary		Выход администратора
//	@Description	Отзывает текущий access-токен и очищает cookie.
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	SuccessResponse
//	@Router			/admin/auth [delete]
func (a *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := a.authUsecase.SignOut(r.Context(), bearerToken(r)); err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, a.cookie(accessTokenCookie, "", -1))
	http.SetCookie(w, a.cookie(refreshTokenCookie, "", -1))

	WriteSuccess(w, http.StatusOK, SuccessResponse{Success: true})
}

// cookie собирает HttpOnly cookie. maxAge < 0 удаляет cookie.
func (a *AuthHandler) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
