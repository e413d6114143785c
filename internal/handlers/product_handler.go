package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/services"
	"github.com/go-chi/chi/v5"
)

type ProductAPI interface {
	Create(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id string, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	products  ProductAPI
	validator *services.ValidationHelper
}

func NewProductHandler(products ProductAPI) *ProductHandler {
	return &ProductHandler{products: products, validator: services.NewValidationHelper()}
}

func respondProductErr(w http.ResponseWriter, err error) bool {
	if errors.Is(err, services.ErrInvalidPrice) {
		services.SendErrorResponse(w, "Price must be greater than zero with at most two decimal places", http.StatusBadRequest, nil)
		return true
	}
	return respondStoreErr(w, err, "Product not found")
}

// CreateProduct adds a catalog item
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Param request body models.Product true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} services.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !decodeJSON(w, r, h.validator, &product) {
		return
	}

	if respondProductErr(w, h.products.Create(r.Context(), &product)) {
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// ListProducts
// @Summary List products
// @Tags Products
// @Produce json
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if respondProductErr(w, err) {
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct
// @Summary Product by id
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} services.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if respondProductErr(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// UpdateProduct replaces a product, keeping its category when none is sent
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.Product true "Product"
// @Success 200 {object} models.Product
// @Failure 404 {object} services.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !decodeJSON(w, r, h.validator, &product) {
		return
	}

	if respondProductErr(w, h.products.Update(r.Context(), chi.URLParam(r, "id"), &product)) {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct
// @Summary Delete product
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if respondProductErr(w, h.products.Delete(r.Context(), chi.URLParam(r, "id"))) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
