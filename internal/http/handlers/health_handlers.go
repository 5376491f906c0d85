package handlers

import "net/http"

var environment = "development"

func SetEnvironment(env string) {
	environment = env
}

// RootHandler godoc
// @Summary API information
// @Tags root
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Inventory Management System",
		"version": "1.0.0",
		"health":  "/health",
	})
}

// HealthHandler godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"service":     "inventory-api",
		"environment": environment,
	})
}
