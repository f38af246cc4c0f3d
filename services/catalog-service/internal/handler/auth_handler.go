package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/keamoral/ouijagames/gomicro/jwtutil"
	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/keamoral/ouijagames/gomicro/middleware"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/model"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/repository"
	"github.com/keamoral/ouijagames/services/catalog-service/internal/validator"
	"github.com/keamoral/ouijagames/services/catalog-service/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the create-account payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest carries the storefront profile document
type ProfileRequest struct {
	Username string `json:"usuario" validate:"required"`
	RUT      string `json:"rut" validate:"required"`
	Email    string `json:"correo"`
}

// AuthHandler serves account creation, sign-in and profile updates
type AuthHandler struct {
	repo    repository.Repository
	jwt     *jwtutil.JWTUtil
	metrics *prometheus.Metrics
}

// NewAuthHandler creates the identity handlers
func NewAuthHandler(repo repository.Repository, jwt *jwtutil.JWTUtil, metrics *prometheus.Metrics) *AuthHandler {
	return &AuthHandler{repo: repo, jwt: jwt, metrics: metrics}
}

func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	h.metrics.RecordAuthAttempt("register")

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		h.metrics.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		log.Warn("Invalid registration data", zap.String("email", req.Email), zap.Error(err))
		h.metrics.RecordAuthError("invalid_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validator.Message(err)})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		h.metrics.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	defer h.metrics.TrackDBOperation("insert")(time.Now())
	err = h.repo.CreateUser(ctx, &user)
	if errors.Is(err, repository.ErrDuplicate) {
		log.Warn("User already exists", zap.String("email", req.Email))
		h.metrics.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "the email address is already in use by another account"})
	}
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		h.metrics.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	// a fresh account is signed in, so the caller can write its profile
	token, err := h.jwt.GenerateToken(user.Email, user.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		h.metrics.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	h.metrics.RecordAuthAttempt("login")

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		h.metrics.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validator.Message(err)})
	}

	defer h.metrics.TrackDBOperation("query")(time.Now())
	user, err := h.repo.FindUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		h.metrics.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		h.metrics.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.jwt.GenerateToken(user.Email, user.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		h.metrics.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// UpdateProfile stores the username and RUT of the signed-in user
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse profile request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validator.Message(err)})
	}

	defer h.metrics.TrackDBOperation("update")(time.Now())
	user, err := h.repo.UpdateUserProfile(c.Request().Context(), claims.UserID, req.Username, req.RUT)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		log.Error("Failed to update profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "profile update failed"})
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, user)
}
