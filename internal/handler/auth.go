package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/nihongo-sekai/internal/middleware"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/repository"
	"github.com/iliyamo/nihongo-sekai/internal/service"
)

// AuthHandler signs demo users in.  Picking an account is the whole
// sign-in; the token only tells the API who is calling.
type AuthHandler struct {
	Identity *service.IdentityService
}

func NewAuthHandler(s *service.IdentityService) *AuthHandler {
	return &AuthHandler{Identity: s}
}

type demoReq struct {
	UserID uint64 `json:"userId"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User   model.User `json:"user"`
	Access tokenPart  `json:"access"`
}

// Demo handles POST /v1/auth/demo.
func (h *AuthHandler) Demo(c echo.Context) error {
	var req demoReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return fail(c, http.StatusBadRequest, "userId required")
	}
	u, tok, err := h.Identity.Demo(c.Request().Context(), req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, http.StatusNotFound, "no such demo user")
		}
		c.Logger().Errorf("auth: %v", err)
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}
	return ok(c, http.StatusOK, authResp{User: u, Access: tokenPart{Token: tok.Token, Expires: tok.Exp}})
}

// Me handles GET /v1/me.  It echoes the identity carried by the token.
func (h *AuthHandler) Me(c echo.Context) error {
	u, signedIn := middleware.CurrentUser(c)
	if !signedIn {
		return fail(c, http.StatusUnauthorized, "sign in to continue")
	}
	return ok(c, http.StatusOK, u)
}
