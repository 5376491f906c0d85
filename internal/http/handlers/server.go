package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/stockflow/inventory-api/internal/alerts"
	"github.com/stockflow/inventory-api/internal/cache"
	"github.com/stockflow/inventory-api/internal/repo"
)

var (
	productRepo repo.ProductRepository
	userRepo    repo.UserRepository
	metricsRepo repo.MetricsRepository

	cacheSvc *cache.Service
	notifier *alerts.Notifier
	logger   = logrus.New()
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

// SetCache installs the redis read-through cache; nil disables caching.
func SetCache(c *cache.Service) {
	cacheSvc = c
}

// SetNotifier installs the low-stock alert notifier; nil disables alerts.
func SetNotifier(n *alerts.Notifier) {
	notifier = n
}

func SetLogger(l *logrus.Logger) {
	logger = l
}
