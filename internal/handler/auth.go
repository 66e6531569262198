package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/artgalerie/gallery-api/internal/config"
	"github.com/artgalerie/gallery-api/internal/mailer"
	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/repository"
	"github.com/artgalerie/gallery-api/internal/utils"
)

// resetCodeTTL is how long an emailed password reset code stays valid.
const resetCodeTTL = 15 * time.Minute

// AuthHandler implements registration, login, token refresh, logout and
// the password reset flow.
type AuthHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Resets *repository.ResetRepo
	Mailer *mailer.Mailer
	Cfg    config.Config
}

func NewAuthHandler(users *repository.UserRepo, tokens *repository.TokenRepo, resets *repository.ResetRepo, m *mailer.Mailer, cfg config.Config) *AuthHandler {
	if users == nil || tokens == nil || resets == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, Tokens: tokens, Resets: resets, Mailer: m, Cfg: cfg}
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Category  string `json:"category"`
		Phone     string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Email) == "" || len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and a password of at least 8 characters are required"})
	}
	category := strings.ToLower(strings.TrimSpace(body.Category))
	if category == "" {
		category = model.UserVisitor
	}
	if category != model.UserVisitor && category != model.UserArtist {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category must be visitor or artist"})
	}

	u := model.User{
		Email:     body.Email,
		FirstName: strings.TrimSpace(body.FirstName),
		LastName:  strings.TrimSpace(body.LastName),
		Category:  category,
		Phone:     strings.TrimSpace(body.Phone),
	}
	ctx := c.Request().Context()
	id, err := h.Users.Create(ctx, &u, body.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register"})
	}
	fresh, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": fresh})
}

// Login handles POST /v1/auth/login and issues an access/refresh token
// pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByEmail(ctx, body.Email)
	if err != nil || !utils.VerifyPassword(u.PasswordHash, body.Password) {
		// Same answer for unknown email and wrong password.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return h.issueTokens(c, u)
}

// Refresh handles POST /v1/auth/refresh.  The presented refresh token
// is rotated: the old one is revoked and a new pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	ctx := c.Request().Context()
	hash := utils.HashRefreshRaw(body.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to refresh"})
	}
	return h.issueTokens(c, u)
}

// Logout handles POST /v1/auth/logout by revoking the presented refresh
// token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}
	hash := utils.HashRefreshRaw(body.RefreshToken)
	if err := h.Tokens.RevokeByHash(c.Request().Context(), hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to logout"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me handles GET /v1/auth/me for the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// ForgotPassword handles POST /v1/auth/forgot-password.  The answer is
// identical whether or not the email exists, so the endpoint cannot be
// used to probe accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	const answer = "if the email exists, a reset code has been sent"

	ctx := c.Request().Context()
	u, err := h.Users.GetByEmail(ctx, body.Email)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"message": answer})
	}
	code, err := utils.NewResetCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reset code"})
	}
	if err := h.Resets.Store(ctx, u.ID, code, time.Now().UTC().Add(resetCodeTTL)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reset code"})
	}
	if err := h.Mailer.Send(u.Email, "Your password reset code",
		fmt.Sprintf("Hello %s,\n\nYour password reset code is: %s\nIt expires in %d minutes.\n",
			u.FirstName, code, int(resetCodeTTL.Minutes()))); err != nil {
		log.Printf("reset code email to %s failed: %v", u.Email, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": answer})
}

// ResetPassword handles POST /v1/auth/reset-password with the emailed
// code.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var body struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Code) != 8 || len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "an 8-digit code and a password of at least 8 characters are required"})
	}
	ctx := c.Request().Context()
	userID, err := h.Resets.Consume(ctx, body.Code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset password"})
	}
	if err := h.Users.SetPassword(ctx, userID, body.Password, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reset password"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// issueTokens signs a fresh access token and mints a new refresh token
// for u, storing only the refresh token's hash.
func (h *AuthHandler) issueTokens(c echo.Context, u model.User) error {
	ctx := c.Request().Context()
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Category, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create refresh token"})
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store refresh token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access.Token,
		"expires_at":    access.Exp,
		"refresh_token": refresh.Raw,
		"user":          u,
	})
}
