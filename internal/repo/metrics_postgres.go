package repo

import (
	"context"
	"database/sql"
	"math"
	"time"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetInventoryValue() (InventoryValue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var m InventoryValue

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&m.TotalProducts); err != nil {
		return InventoryValue{}, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(price * quantity), 0) FROM products`).Scan(&m.TotalValue); err != nil {
		return InventoryValue{}, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE quantity <= min_stock`).Scan(&m.LowStockCount); err != nil {
		return InventoryValue{}, err
	}

	m.TotalValue = math.Round(m.TotalValue*100) / 100
	return m, nil
}
