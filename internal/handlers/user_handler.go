package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
	"github.com/ecommerce-cloud/backend/internal/services"
)

type UserAPI interface {
	Create(ctx context.Context, user *models.User) (*models.UserView, error)
	View(ctx context.Context, id int64) (*models.UserView, error)
	List(ctx context.Context) ([]models.UserView, error)
	Update(ctx context.Context, user *models.User) (*models.UserView, error)
	Delete(ctx context.Context, id int64) error
	AddAddress(ctx context.Context, userID int64, addr *models.Address) (*models.UserView, error)
}

type userRequest struct {
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Document  string     `json:"document" validate:"required"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birthDate"`
}

func (req userRequest) user(id int64) *models.User {
	return &models.User{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Document:  req.Document,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
	}
}

type addressRequest struct {
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zipCode"`
	Primary      bool   `json:"primary"`
}

type UserHandler struct {
	users     UserAPI
	validator *services.ValidationHelper
}

func NewUserHandler(users UserAPI) *UserHandler {
	return &UserHandler{users: users, validator: services.NewValidationHelper()}
}

// respondStoreErr answers a repository error, reporting false when there was none.
func respondStoreErr(w http.ResponseWriter, err error, notFound string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, repository.ErrNotFound):
		services.SendErrorResponse(w, notFound, http.StatusNotFound, nil)
	case errors.Is(err, repository.ErrConflict):
		services.SendErrorResponse(w, "Resource already exists", http.StatusConflict, nil)
	default:
		internalError(w, "USER", err)
	}
	return true
}

// CreateUser registers a user
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body userRequest true "User"
// @Success 201 {object} models.UserView
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	view, err := h.users.Create(r.Context(), req.user(0))
	if respondStoreErr(w, err, "User not found") {
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// ListUsers
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} models.UserView
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if respondStoreErr(w, err, "User not found") {
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser
// @Summary User by id
// @Tags Users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.UserView
// @Failure 404 {object} services.ErrorResponse
// @Router /users/{userId} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	view, err := h.users.View(r.Context(), id)
	if respondStoreErr(w, err, "User not found") {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateUser
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body userRequest true "User"
// @Success 200 {object} models.UserView
// @Failure 404 {object} services.ErrorResponse
// @Router /users/{userId} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req userRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	view, err := h.users.Update(r.Context(), req.user(id))
	if respondStoreErr(w, err, "User not found") {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteUser
// @Summary Delete user
// @Tags Users
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Router /users/{userId} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if respondStoreErr(w, h.users.Delete(r.Context(), id), "User not found") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddAddress attaches an address to a user
// @Summary Add address
// @Description The first address of a user becomes its primary address
// @Tags Users
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body addressRequest true "Address"
// @Success 201 {object} models.UserView
// @Failure 404 {object} services.ErrorResponse
// @Router /users/{userId}/address [post]
func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req addressRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	addr := &models.Address{
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Primary:      req.Primary,
	}
	view, err := h.users.AddAddress(r.Context(), userID, addr)
	if respondStoreErr(w, err, "User not found") {
		return
	}
	writeJSON(w, http.StatusCreated, view)
}
