package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockflow/inventory-api/internal/cache"
	"github.com/stockflow/inventory-api/internal/models"
	"github.com/stockflow/inventory-api/internal/repo"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func invalidateAggregates(r *http.Request) {
	cacheSvc.Invalidate(r.Context(), cache.KeyCategories, cache.KeyInventoryValue)
}

// GetProductsHandler godoc
// @Summary List products with filtering, sorting and pagination
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring match over name, description and SKU"
// @Param category query string false "Exact category match"
// @Param low_stock query bool false "Only products at or below min stock"
// @Param order_by query string false "Sort key (name|sku|price|quantity|category|created_at)"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} ProductListResult
// @Failure 500 {string} string "Internal error"
// @Router /api/v1/products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := parsePagination(r)

	filter := repo.ProductFilter{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		LowStockOnly: q.Get("low_stock") == "true",
		OrderBy:      q.Get("order_by"),
		OrderDesc:    q.Get("order") == "desc",
		Offset:       (page - 1) * size,
		Limit:        size,
	}

	products, total, err := productRepo.Filter(filter)
	if err != nil {
		logger.WithError(err).Error("failed to filter products")
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}

	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = toProductResponse(p)
	}

	writeJSON(w, http.StatusOK, ProductListResult{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: totalPages(total, size),
	})
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductCreateRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} map[string]any
// @Failure 409 {string} string "Duplicate SKU"
// @Router /api/v1/products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductCreateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	product := models.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Price:       round2(req.Price),
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}

	created, err := productRepo.Create(product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "product with this SKU already exists", http.StatusConflict)
			return
		}
		logger.WithError(err).Error("failed to create product")
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	invalidateAggregates(r)
	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update a product (partial)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductUpdateRequest true "Fields to update"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Duplicate SKU"
// @Router /api/v1/products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	product, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = round2(*req.Price)
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	updated, err := productRepo.Update(product)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "product with this SKU already exists", http.StatusConflict)
			return
		}
		logger.WithError(err).Error("failed to update product")
		http.Error(w, "could not update product", http.StatusInternalServerError)
		return
	}

	invalidateAggregates(r)
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /api/v1/products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if err := productRepo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete product", http.StatusInternalServerError)
		return
	}

	invalidateAggregates(r)
	w.WriteHeader(http.StatusNoContent)
}

// GetCategoriesHandler godoc
// @Summary List distinct product categories
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /api/v1/products/categories [get]
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	var categories []string
	if cacheSvc.Get(r.Context(), cache.KeyCategories, &categories) {
		writeJSON(w, http.StatusOK, categories)
		return
	}

	categories, err := productRepo.Categories()
	if err != nil {
		logger.WithError(err).Error("failed to fetch categories")
		http.Error(w, "could not fetch categories", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	cacheSvc.Set(r.Context(), cache.KeyCategories, categories)
	writeJSON(w, http.StatusOK, categories)
}

// GetLowStockHandler godoc
// @Summary List products at or below their minimum stock threshold
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} ProductListResult
// @Router /api/v1/products/low-stock [get]
func GetLowStockHandler(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)

	products, total, err := productRepo.Filter(repo.ProductFilter{
		LowStockOnly: true,
		Offset:       (page - 1) * size,
		Limit:        size,
	})
	if err != nil {
		logger.WithError(err).Error("failed to fetch low-stock products")
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}

	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = toProductResponse(p)
	}

	writeJSON(w, http.StatusOK, ProductListResult{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: totalPages(total, size),
	})
}

// GetInventoryValueHandler godoc
// @Summary Aggregate inventory statistics
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.InventoryValue
// @Router /api/v1/products/inventory-value [get]
func GetInventoryValueHandler(w http.ResponseWriter, r *http.Request) {
	var cached repo.InventoryValue
	if cacheSvc.Get(r.Context(), cache.KeyInventoryValue, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	m, err := metricsRepo.GetInventoryValue()
	if err != nil {
		logger.WithError(err).Error("failed to compute inventory value")
		http.Error(w, "could not fetch inventory value", http.StatusInternalServerError)
		return
	}

	cacheSvc.Set(r.Context(), cache.KeyInventoryValue, m)
	writeJSON(w, http.StatusOK, m)
}
