package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/stockflow/inventory-api/internal/models"
	"github.com/stockflow/inventory-api/internal/repo"
)

type csvRow struct {
	Name     string
	SKU      string
	Price    float64
	Quantity int
	MinStock int
	Category string
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "sku", "price", "quantity"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Name:     field(record, "name"),
			SKU:      field(record, "sku"),
			Price:    parseFloat(field(record, "price")),
			Quantity: parseInt(field(record, "quantity")),
			MinStock: parseInt(field(record, "min_stock")),
			Category: field(record, "category"),
		})
	}
	return rows, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func validateRow(r csvRow) *ValidationError {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return &ValidationError{Field: "name", Description: "missing name"}
	case strings.TrimSpace(r.SKU) == "":
		return &ValidationError{Field: "sku", Description: "missing sku"}
	case r.Price <= 0:
		return &ValidationError{Field: "price", Description: "invalid price"}
	case r.Quantity < 0:
		return &ValidationError{Field: "quantity", Description: "invalid quantity"}
	case r.MinStock < 0:
		return &ValidationError{Field: "min_stock", Description: "invalid min_stock"}
	}
	return nil
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Rows are keyed by SKU. mode=skip leaves existing SKUs
// @Description untouched; mode=update overwrites them.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file (name,sku,price,quantity,min_stock,category)"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Router /api/v1/products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var imported int
	var errorsList []ValidationError

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if ve := validateRow(rec); ve != nil {
			ve.Description = fmt.Sprintf("row %d: %s", rowNum, ve.Description)
			errorsList = append(errorsList, *ve)
			continue
		}

		existing, err := productRepo.GetBySKU(rec.SKU)
		if err == nil {
			if mode == "skip" {
				errorsList = append(errorsList, ValidationError{Field: "sku", Description: fmt.Sprintf("row %d: SKU '%s' already exists", rowNum, rec.SKU)})
				continue
			}
			existing.Name = rec.Name
			existing.Price = round2(rec.Price)
			existing.Quantity = rec.Quantity
			existing.MinStock = rec.MinStock
			existing.Category = rec.Category
			if _, err := productRepo.Update(existing); err != nil {
				errorsList = append(errorsList, ValidationError{Field: "sku", Description: fmt.Sprintf("row %d: failed to update '%s'", rowNum, rec.SKU)})
				continue
			}
			imported++
			continue
		}

		newProduct := models.Product{
			Name:     rec.Name,
			SKU:      rec.SKU,
			Price:    round2(rec.Price),
			Quantity: rec.Quantity,
			MinStock: rec.MinStock,
			Category: rec.Category,
		}
		if _, err := productRepo.Create(newProduct); err != nil {
			if errors.Is(err, repo.ErrDuplicatedValueUnique) {
				errorsList = append(errorsList, ValidationError{Field: "sku", Description: fmt.Sprintf("row %d: SKU '%s' already exists", rowNum, rec.SKU)})
			} else {
				errorsList = append(errorsList, ValidationError{Field: "row", Description: fmt.Sprintf("row %d: %v", rowNum, err)})
			}
			continue
		}
		imported++
	}

	invalidateAggregates(r)
	writeJSON(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
