package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/stockflow/inventory-api/internal/http/handlers"
	api "github.com/stockflow/inventory-api/internal/http/router"
)

func importCSV(r http.Handler, csvContent, mode string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "products.csv")

	path := "/api/v1/products/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportProducts(t *testing.T) {
	clearAllProducts()
	t.Cleanup(clearAllProducts)
	r := api.New()

	csvContent := "name,sku,price,quantity,min_stock,category\n" +
		"Widget,W-1,9.99,10,2,widgets\n" +
		"Gadget,G-1,19.50,0,5,gadgets\n"

	w := importCSV(r, csvContent, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ImportProductsResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.ImportedProductsCount != 2 || len(resp.Errors) != 0 {
		t.Fatalf("expected 2 imports and no errors, got %+v", resp)
	}

	products, err := productRepo.GetBySKU("G-1")
	if err != nil {
		t.Fatalf("imported product missing: %v", err)
	}
	if products.Price != 19.50 || products.MinStock != 5 {
		t.Errorf("imported fields wrong: %+v", products)
	}
}

func TestImportProducts_SkipMode(t *testing.T) {
	clearAllProducts()
	t.Cleanup(clearAllProducts)
	r := api.New()

	createProduct(r, handler.ProductCreateRequest{
		Name: "Original", SKU: "W-1", Price: 5.00, Quantity: 1,
	})

	csvContent := "name,sku,price,quantity\n" +
		"Replacement,W-1,9.99,10\n" +
		"Fresh,F-1,2.50,3\n"

	w := importCSV(r, csvContent, "skip")
	var resp handler.ImportProductsResult
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.ImportedProductsCount != 1 {
		t.Errorf("expected 1 import, got %d", resp.ImportedProductsCount)
	}
	if len(resp.Errors) != 1 || !strings.Contains(resp.Errors[0].Description, "W-1") {
		t.Errorf("expected a duplicate-SKU row error, got %+v", resp.Errors)
	}
	if resp.Errors[0].Field != "sku" {
		t.Errorf("expected sku field on duplicate-SKU error, got %q", resp.Errors[0].Field)
	}

	existing, _ := productRepo.GetBySKU("W-1")
	if existing.Name != "Original" || existing.Price != 5.00 {
		t.Errorf("skip mode overwrote existing product: %+v", existing)
	}
}

func TestImportProducts_UpdateMode(t *testing.T) {
	clearAllProducts()
	t.Cleanup(clearAllProducts)
	r := api.New()

	createProduct(r, handler.ProductCreateRequest{
		Name: "Original", SKU: "W-1", Price: 5.00, Quantity: 1,
	})

	csvContent := "name,sku,price,quantity,min_stock\n" +
		"Replacement,W-1,9.99,10,4\n"

	w := importCSV(r, csvContent, "update")
	var resp handler.ImportProductsResult
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.ImportedProductsCount != 1 || len(resp.Errors) != 0 {
		t.Fatalf("expected 1 update and no errors, got %+v", resp)
	}

	updated, _ := productRepo.GetBySKU("W-1")
	if updated.Name != "Replacement" || updated.Price != 9.99 || updated.Quantity != 10 || updated.MinStock != 4 {
		t.Errorf("update mode did not overwrite fields: %+v", updated)
	}
}

func TestImportProducts_RowErrors(t *testing.T) {
	clearAllProducts()
	t.Cleanup(clearAllProducts)
	r := api.New()

	csvContent := "name,sku,price,quantity\n" +
		"No Price,N-1,0,3\n" +
		",M-1,1.00,3\n" +
		"Good,G-1,1.00,3\n"

	w := importCSV(r, csvContent, "")
	var resp handler.ImportProductsResult
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.ImportedProductsCount != 1 {
		t.Errorf("expected 1 import, got %d", resp.ImportedProductsCount)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %+v", resp.Errors)
	}
	// Row numbers count the header as row 1.
	if !strings.Contains(resp.Errors[0].Description, "row 2") ||
		!strings.Contains(resp.Errors[1].Description, "row 3") {
		t.Errorf("row numbering off: %+v", resp.Errors)
	}
	if resp.Errors[0].Field != "price" || resp.Errors[1].Field != "name" {
		t.Errorf("expected offending column names, got %+v", resp.Errors)
	}
}

func TestImportProducts_BadFile(t *testing.T) {
	r := api.New()

	w := importCSV(r, "sku,price\nW-1,1.00\n", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on missing column, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on missing file, got %d", rec.Code)
	}
}
