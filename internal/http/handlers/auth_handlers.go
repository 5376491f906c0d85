package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stockflow/inventory-api/internal/auth"
	"github.com/stockflow/inventory-api/internal/models"
	"github.com/stockflow/inventory-api/internal/repo"
)

// RegisterHandler godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "username, email and password"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]any
// @Failure 409 {string} string "User exists"
// @Router /api/v1/auth/register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		FullName:     req.FullName,
		IsActive:     true,
	}

	created, err := userRepo.Create(user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username or email already registered", http.StatusConflict)
			return
		}
		logger.WithError(err).Error("failed to register user")
		http.Error(w, "failed to register user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

// LoginHandler godoc
// @Summary Authenticate a user and return a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "username (or email) and password"
// @Success 200 {object} TokenResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Inactive user"
// @Router /api/v1/auth/login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials LoginRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateStruct(credentials); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := lookupByUsernameOrEmail(credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, credentials.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !user.IsActive {
		http.Error(w, "inactive user", http.StatusForbidden)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, TokenResult{AccessToken: token, TokenType: "bearer"})
}

func lookupByUsernameOrEmail(identifier string) (models.User, error) {
	user, err := userRepo.GetByUsername(identifier)
	if errors.Is(err, repo.ErrUserNotFound) && strings.Contains(identifier, "@") {
		return userRepo.GetByEmail(identifier)
	}
	return user, err
}
