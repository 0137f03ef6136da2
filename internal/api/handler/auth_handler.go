package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eschool/eschool-api/internal/api/metrics"
	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// signupRequest is checked by the service, not by tags: a taken email or a
// bad role secret must win over missing fields.
type signupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	SecretKey string `json:"secretKey"`
}

type signupResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
	Token   string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Signup creates a new user account and returns a session token.
//
// @Summary      Sign up
// @Description  Instructor and admin roles require the matching secretKey. Unknown roles become student.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup form"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  errorBody  "User already exists"
// @Failure      403   {object}  errorBody  "Invalid instructor or admin secret key"
// @Failure      422   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		SecretKey: req.SecretKey,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(res.Role).Inc()
	return c.JSON(http.StatusCreated, signupResponse{
		Message: "Signup successful",
		Role:    res.Role,
		Token:   res.Token,
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorBody  "Invalid credentials"
// @Failure      429   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, User: res.User})
}
