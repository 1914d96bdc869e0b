package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/realestate-listing/internal/middleware"
	"github.com/iliyamo/realestate-listing/internal/model"
	"github.com/iliyamo/realestate-listing/internal/service"
	"github.com/iliyamo/realestate-listing/internal/utils"
)

// AuthService is what the auth endpoints need from the service layer.
type AuthService interface {
	Signup(ctx context.Context, p service.SignupParams, role model.Role) (utils.AccessToken, error)
	Signin(ctx context.Context, email, password string) (utils.AccessToken, error)
	GenerateProductKey(email string, role model.Role) (string, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth AuthService
	Log  zerolog.Logger
}

func NewAuthHandler(auth AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProductKey string `json:"productKey"`
}

type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type productKeyReq struct {
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

type tokenResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

var phonePattern = regexp.MustCompile(`(\d{2,3})-?(\d{3,4})-?(\d{4})`)

const minPasswordLen = 5

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (r *signupReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	switch {
	case r.Name == "":
		return "name must not be empty"
	case !phonePattern.MatchString(r.Phone):
		return "phone must be a valid phone number"
	case !validEmail(r.Email):
		return "email must be a valid email"
	case len(r.Password) < minPasswordLen:
		return "password must be of minimum length of 5"
	case len(r.Password) > utils.MaxPasswordBytes:
		return "password must be at most 72 bytes"
	}
	return ""
}

// Signup handles POST /v1/auth/signup/:userType.
func (h *AuthHandler) Signup(c echo.Context) error {
	role, ok := model.ParseRole(c.Param("userType"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user type"})
	}
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	tok, err := h.Auth.Signup(c.Request().Context(), service.SignupParams{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		ProductKey: req.ProductKey,
	}, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		case errors.Is(err, service.ErrInvalidProductKey):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		h.Log.Error().Err(err).Msg("signup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}
	return c.JSON(http.StatusCreated, tokenResp{Token: tok.Token, Expires: tok.Exp})
}

// Signin handles POST /v1/auth/signin.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	tok, err := h.Auth.Signin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.Log.Error().Err(err).Msg("signin failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signin failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: tok.Token, Expires: tok.Exp})
}

// ProductKey handles POST /v1/auth/key.  It mints the key a user needs to
// sign up with an elevated role.
func (h *AuthHandler) ProductKey(c echo.Context) error {
	var req productKeyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role, ok := model.ParseRole(req.UserType)
	if !validEmail(email) || !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and userType required"})
	}
	key, err := h.Auth.GenerateProductKey(email, role)
	if err != nil {
		h.Log.Error().Err(err).Msg("product key generation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "key generation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"productKey": key})
}

// Me returns the identity the gate resolved for this request.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, u)
}
