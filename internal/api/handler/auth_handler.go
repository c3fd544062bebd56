package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/codedocs/snippets-api/internal/api/metrics"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

// AuthHandler handles the account and session endpoints. Tokens travel
// in HttpOnly cookies, so every success path that mints tokens also
// sets them here.
type AuthHandler struct {
	authService ports.AuthService
	tokens      ports.TokenService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, tokens ports.TokenService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, cookies: cookies}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		Detail: "Registration successful",
		User:   user,
	})
}

// Login authenticates a user and sets both token cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.cookies.SetAuthCookies(c, result.Tokens)

	return c.JSON(http.StatusOK, loginResponse{
		Detail:               "Login successful",
		User:                 result.User,
		AccessTokenExpiresIn: expiresIn(result.Tokens.AccessExpiresAt),
	})
}

// Refresh rotates the refresh token and re-sets both cookies. The old
// refresh token is blacklisted by the exchange, so the new one must
// replace it in the browser or the session dies on the next refresh.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  refreshResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token not found")
	}

	pair, err := h.tokens.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	h.cookies.SetAuthCookies(c, pair)

	return c.JSON(http.StatusOK, refreshResponse{
		Detail:               "Token refreshed successfully",
		AccessTokenExpiresIn: expiresIn(pair.AccessExpiresAt),
	})
}

// Logout revokes the refresh token and clears both cookies.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  detailResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var refreshToken string
	if cookie, cerr := c.Cookie(RefreshTokenCookie); cerr == nil {
		refreshToken = cookie.Value
	}

	if err := h.authService.Logout(c.Request().Context(), userID, refreshToken); err != nil {
		return err
	}

	h.cookies.ClearAuthCookies(c)

	return c.JSON(http.StatusOK, detailResponse{Detail: "Logout successful"})
}

// CurrentUser returns the authenticated user's profile.
//
// @Summary      Get the current user
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// ListUsers returns every account, newest first. Admin only.
//
// @Summary      List all users
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes an account. Admin only; self-deletion and
// superuser targets are rejected.
//
// @Summary      Delete a user
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  detailResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/auth/users/{id} [delete]
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	deleted, err := h.authService.DeleteUser(c.Request().Context(), actorID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detailResponse{
		Detail: "User '" + deleted.Username + "' deleted successfully",
	})
}

// expiresIn reports the whole seconds remaining until t, clamped at zero.
func expiresIn(t time.Time) int64 {
	remaining := int64(time.Until(t).Round(time.Second).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
