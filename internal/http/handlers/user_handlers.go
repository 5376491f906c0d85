package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockflow/inventory-api/internal/auth"
	mw "github.com/stockflow/inventory-api/internal/http/middleware"
	"github.com/stockflow/inventory-api/internal/repo"
)

// MeHandler godoc
// @Summary Get the current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /api/v1/users/me [get]
func MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := mw.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateMeHandler godoc
// @Summary Update the current user profile
// @Description Partial update; only supplied fields change. A new
// @Description password replaces the old one.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body UserUpdateRequest true "fields to update"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]any
// @Failure 409 {string} string "Username or email taken"
// @Router /api/v1/users/me [put]
func UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := mw.CurrentUser(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req UserUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			http.Error(w, "failed to hash password", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hashed
	}

	updated, err := userRepo.Update(user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username or email already registered", http.StatusConflict)
			return
		}
		logger.WithError(err).Error("failed to update profile")
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

// GetUsersHandler godoc
// @Summary List users (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} UserListResult
// @Failure 403 {string} string "Forbidden"
// @Router /api/v1/users [get]
func GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)

	users, total, err := userRepo.List((page-1)*size, size)
	if err != nil {
		logger.WithError(err).Error("failed to list users")
		http.Error(w, "could not fetch users", http.StatusInternalServerError)
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}

	writeJSON(w, http.StatusOK, UserListResult{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: totalPages(total, size),
	})
}

// GetUserByIDHandler godoc
// @Summary Get a user by ID (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {string} string "Not found"
// @Router /api/v1/users/{id} [get]
func GetUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteUserHandler godoc
// @Summary Delete a user (admin only)
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Cannot delete yourself"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/users/{id} [delete]
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	current, _ := mw.CurrentUser(r)
	if current.ID == id {
		http.Error(w, "cannot delete yourself", http.StatusBadRequest)
		return
	}

	if err := userRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
