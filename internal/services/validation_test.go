package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationHelper_CheckoutRequest(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid request", func(t *testing.T) {
		req := CheckoutRequest{UserID: 1, CardID: 2, Items: []models.CartLine{{ProductID: "p1", Quantity: 2}}}
		assert.NoError(t, vh.ValidateStruct(&req))
	})

	t.Run("empty cart", func(t *testing.T) {
		req := CheckoutRequest{UserID: 1, CardID: 2, Items: []models.CartLine{}}
		err := vh.ValidateStruct(&req)

		var fieldErrs validator.ValidationErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Equal(t, "items", fieldErrs[0].Field())
	})

	t.Run("zero quantity and missing product", func(t *testing.T) {
		req := CheckoutRequest{UserID: 1, CardID: 2, Items: []models.CartLine{{Quantity: 0}}}
		err := vh.ValidateStruct(&req)

		var fieldErrs validator.ValidationErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Len(t, fieldErrs, 2)
	})
}

func TestValidationHelper_IssueCardRequest(t *testing.T) {
	vh := NewValidationHelper()

	err := vh.ValidateStruct(&IssueCardRequest{Number: "4111-1111", CVV: "12"})
	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))

	fields := map[string]string{}
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, "numeric", fields["number"])
	assert.Equal(t, "min", fields["cvv"])
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Card not found", http.StatusNotFound, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Card not found", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("validation details", func(t *testing.T) {
		validationErr := NewValidationHelper().ValidateStruct(&CheckoutRequest{})
		assert.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		var response ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, map[string]string{
			"userId": "is required",
			"cardId": "is required",
			"items":  "is required",
		}, response.Details)
	})

	t.Run("nested fields use client paths", func(t *testing.T) {
		validationErr := NewValidationHelper().ValidateStruct(&CheckoutRequest{
			UserID: 1,
			CardID: 2,
			Items:  []models.CartLine{{ProductID: "p1", Quantity: 0}, {Quantity: 1}},
		})

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "is required", response.Details["items[0].quantity"])
		assert.Equal(t, "is required", response.Details["items[1].productId"])
	})

	t.Run("non-validation error carries no details", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, errors.New("boom"))

		var response ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Nil(t, response.Details)
	})
}
