package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v5"
	"github.com/nkrv/shopchat/internal/domain"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// requireAuth extracts and verifies the bearer token. The subject claim is
// the opaque user identity everything downstream keys on.
func (s *Server) requireAuth(c *echo.Context) (*jwt.RegisteredClaims, error) {
	header := c.Request().Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	claims, err := s.auth.Verify(token)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or revoked token")
	}
	return claims, nil
}

func (s *Server) signup(c *echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username, email and password are required")
	}

	user, err := s.auth.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create user")
	}

	return c.JSON(http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (s *Server) login(c *echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, user, err := s.auth.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"access_token": token,
		"user":         userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *Server) logout(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	s.auth.Revoke(claims)
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out."})
}

func (s *Server) me(c *echo.Context) error {
	claims, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject")
	}
	user, err := s.users.FindByID(c.Request().Context(), id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}
