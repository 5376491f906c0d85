package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stockflow/inventory-api/internal/models"
)

// DailyLowStockLogKey is the redis list the daily summary drains.
const DailyLowStockLogKey = "alerts:lowstock:daily"

type SMTPConfig struct {
	From         string
	To           string
	Server       string
	Port         string
	User         string
	Password     string
	AuthDisabled bool
}

// Notifier mails low-stock alerts and keeps a daily event log in
// redis. With no SMTP server configured it only logs; with no redis
// it skips the daily summary.
type Notifier struct {
	cfg    SMTPConfig
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewNotifier(cfg SMTPConfig, rdb *redis.Client, logger *logrus.Logger) *Notifier {
	return &Notifier{cfg: cfg, rdb: rdb, logger: logger}
}

type lowStockEvent struct {
	ProductID int       `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	MinStock  int       `json:"min_stock"`
	Time      time.Time `json:"time"`
}

// NotifyLowStock fires when a stock adjustment leaves a product at or
// below its minimum stock threshold.
func (n *Notifier) NotifyLowStock(ctx context.Context, p models.Product) {
	n.logger.WithFields(logrus.Fields{
		"product_id": p.ID,
		"sku":        p.SKU,
		"quantity":   p.Quantity,
		"min_stock":  p.MinStock,
	}).Warn("product at or below minimum stock")

	n.logEvent(ctx, p)

	if n.cfg.Server == "" {
		return
	}

	subject := fmt.Sprintf("LOW STOCK: %s (%s)", p.Name, p.SKU)
	body := fmt.Sprintf("Product: %s\nSKU: %s\nQuantity: %d\nMin stock: %d\nTime: %s",
		p.Name, p.SKU, p.Quantity, p.MinStock, time.Now().Format(time.RFC3339))

	go n.send(subject, body)
}

func (n *Notifier) send(subject, body string) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.cfg.From, n.cfg.To, subject, body)

	addr := fmt.Sprintf("%s:%s", n.cfg.Server, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Server)
	if n.cfg.AuthDisabled {
		auth = nil
	}

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, []byte(msg)); err != nil {
		n.logger.WithError(err).Error("failed to send low-stock alert email")
	}
}

func (n *Notifier) logEvent(ctx context.Context, p models.Product) {
	if n.rdb == nil {
		return
	}
	entry := lowStockEvent{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Quantity:  p.Quantity,
		MinStock:  p.MinStock,
		Time:      time.Now(),
	}
	data, _ := json.Marshal(entry)
	_ = n.rdb.RPush(ctx, DailyLowStockLogKey, data).Err()
}

// StartDailySummary blocks, mailing an end-of-day digest of low-stock
// events. Run it in its own goroutine.
func (n *Notifier) StartDailySummary(interval time.Duration) {
	if n.rdb == nil {
		return
	}
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(interval)
		}
		time.Sleep(time.Until(next))
		n.SendDailySummary(context.Background())
	}
}

func (n *Notifier) SendDailySummary(ctx context.Context) {
	entries, err := n.rdb.LRange(ctx, DailyLowStockLogKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return
	}
	_ = n.rdb.Del(ctx, DailyLowStockLogKey).Err() // clear after reading

	perProduct := make(map[string]int)
	for _, item := range entries {
		var entry lowStockEvent
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			perProduct[fmt.Sprintf("%s (%s)", entry.Name, entry.SKU)]++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Low-stock events today: %d\n\n", len(entries))
	for product, count := range perProduct {
		fmt.Fprintf(&sb, "%s: %d event(s)\n", product, count)
	}

	if n.cfg.Server == "" {
		n.logger.Info("daily low-stock summary:\n" + sb.String())
		return
	}
	go n.send("Daily low-stock summary", sb.String())
}
