package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/stockflow/inventory-api/internal/auth"
	handler "github.com/stockflow/inventory-api/internal/http/handlers"
	mw "github.com/stockflow/inventory-api/internal/http/middleware"
	rl "github.com/stockflow/inventory-api/internal/http/rate_limiter"
	api "github.com/stockflow/inventory-api/internal/http/router"
	"github.com/stockflow/inventory-api/internal/models"
	"github.com/stockflow/inventory-api/internal/repo"
)

var (
	adminToken string
	userToken  string

	productRepo *repo.InMemoryProductRepository
	userRepo    *repo.InMemoryUserRepository
)

func init() {
	// High enough that the suites never trip the auth rate limiter.
	rl.Configure(10000, 10000)

	setupTestRepos()
	r := api.New()

	var err error
	if adminToken, err = generateToken(r, "admin", "secret123"); err != nil {
		panic(fmt.Sprintf("error generating admin token: %v", err))
	}
	if userToken, err = generateToken(r, "alice", "secret123"); err != nil {
		panic(fmt.Sprintf("error generating user token: %v", err))
	}
}

func setupTestRepos() {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	userRepo = repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)
	mw.SetUserRepo(userRepo)

	handler.SetMetricsRepo(repo.NewInMemoryMetricsRepository(productRepo))

	hash, _ := auth.HashPassword("secret123")
	userRepo.Create(models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		IsActive:     true,
		IsAdmin:      true,
	})
	userRepo.Create(models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		IsActive:     true,
	})
}

func clearAllProducts() {
	productRepo.Clear()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	w := doJSON(r, http.MethodPost, "/api/v1/auth/login",
		handler.LoginRequest{Username: username, Password: password}, "")

	var resp handler.TokenResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.AccessToken, nil
}

func doJSON(r http.Handler, method, path string, payload any, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}

	req := httptest.NewRequest(method, path, &body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductCreateRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/api/v1/products", p, adminToken)
}

func adjustProduct(r http.Handler, productID int, delta int) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/api/v1/products/%d/adjust", productID),
		handler.QuantityAdjustmentRequest{Delta: delta}, adminToken)
}

func decodeProduct(w *httptest.ResponseRecorder) (handler.ProductResponse, error) {
	var resp handler.ProductResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	return resp, err
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))
	writer.Close()
	return buf, writer.FormDataContentType()
}
