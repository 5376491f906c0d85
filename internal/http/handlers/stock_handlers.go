package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	obs "github.com/stockflow/inventory-api/internal/observability/metrics"
	"github.com/stockflow/inventory-api/internal/repo"
)

// AdjustQuantityHandler godoc
// @Summary Adjust the stock quantity of a product
// @Description Applies a positive (restock) or negative (consumption)
// @Description delta atomically; the resulting quantity can never be
// @Description negative.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param adjustment body QuantityAdjustmentRequest true "Quantity change"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/products/{id}/adjust [post]
func AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req QuantityAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	product, err := productRepo.AdjustQuantity(id, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrProductNotFound):
			obs.ObserveStockAdjustment("not_found")
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, repo.ErrInvalidQuantityChange):
			obs.ObserveStockAdjustment("rejected")
			writeValidationErrors(w, []ValidationError{
				{Field: "delta", Description: "resulting quantity cannot be negative"},
			})
		default:
			obs.ObserveStockAdjustment("error")
			logger.WithError(err).Error("failed to adjust quantity")
			http.Error(w, "could not update quantity", http.StatusInternalServerError)
		}
		return
	}

	obs.ObserveStockAdjustment("applied")
	invalidateAggregates(r)

	if product.LowStock() {
		obs.ObserveLowStockAlert()
		if notifier != nil {
			notifier.NotifyLowStock(r.Context(), product)
		}
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}
