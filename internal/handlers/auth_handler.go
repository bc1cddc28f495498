package handlers

import (
	"errors"
	"net/http"

	"github.com/anik-barua/devlink/backend/internal/auth"
	"github.com/anik-barua/devlink/backend/internal/models"
	"github.com/anik-barua/devlink/backend/internal/repositories"
	"github.com/anik-barua/devlink/backend/pkg/gravatar"
	"github.com/anik-barua/devlink/backend/validators"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login and current-user lookup
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(public, protected *echo.Group) {
	public.POST("/users/register", h.Register)
	public.POST("/users/login", h.Login)
	protected.GET("/auth", h.CurrentUser)
}

// Register handles user registration
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, validators.Messages(err)...)
	}

	// Duplicate email is a conflict; early-return before any write
	_, err := h.userRepository.GetUserByEmail(req.Email)
	if err == nil {
		return errorJSON(c, http.StatusBadRequest, "User already exists")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return serverError(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c, err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Avatar:   gravatar.URL(req.Email),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		// A concurrent registration can slip past the email lookup and
		// hit the unique index; still a conflict, not a server error
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return errorJSON(c, http.StatusBadRequest, "User already exists")
		}
		return serverError(c, err)
	}

	token, err := h.issueToken(user)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// Login authenticates a user by email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, validators.Messages(err)...)
	}

	// A generic message for both unknown email and wrong password, so the
	// response never reveals which field failed
	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "Invalid Credentials")
		}
		return serverError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "Invalid Credentials")
	}

	token, err := h.issueToken(user)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// CurrentUser returns the user record behind the presented token
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	claims := currentUser(c)

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "User not found")
		}
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

// issueToken signs a token and appends it to the user's stored token list
func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		return "", err
	}
	if err := h.userRepository.AddToken(user.ID, token); err != nil {
		return "", err
	}
	return token, nil
}
