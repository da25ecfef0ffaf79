package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/MALVIS-KAGIRI/Inventory-management3/internal/jobs"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/mailer"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
)

// LowStockAlertJob mails administrators the list of products at or below
// their reorder levels.
type LowStockAlertJob struct {
	Repo       reports.Repository
	Mailer     *mailer.Mailer
	Recipients []string
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// NewLowStockAlertJob initialises the alert handler.
func NewLowStockAlertJob(repo reports.Repository, m *mailer.Mailer, recipients []string, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockAlertJob {
	return &LowStockAlertJob{
		Repo:       repo,
		Mailer:     m,
		Recipients: recipients,
		Logger:     logger,
		Metrics:    metrics,
	}
}

// Handle executes one alert scan.
func (j *LowStockAlertJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Repo == nil {
		return errors.New("low stock alert: handler not configured")
	}
	var payload LowStockAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskTypeLowStockAlert)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	products, err := j.Repo.ListProducts(ctx, reports.ProductFilter{
		CategoryID:   payload.CategoryID,
		SupplierID:   payload.SupplierID,
		LowStockOnly: true,
	})
	if err != nil {
		resultErr = err
		return err
	}
	j.Metrics.SetLowStockItems(len(products))

	if len(products) == 0 {
		j.Logger.Info("low stock scan clean")
		return nil
	}
	if len(j.Recipients) == 0 {
		j.Logger.Warn("low stock alert has no recipients", slog.Int("items", len(products)))
		return nil
	}

	subject := fmt.Sprintf("Low Stock Alert - %d Items Need Attention", len(products))
	if err := j.Mailer.Send(j.Recipients, subject, lowStockTextBody(products), lowStockHTMLBody(products)); err != nil {
		resultErr = err
		return err
	}

	j.Logger.Info("low stock alert sent",
		slog.Int("items", len(products)),
		slog.Int("recipients", len(j.Recipients)),
	)
	return nil
}

func lowStockTextBody(products []reports.ProductRow) string {
	var b strings.Builder
	b.WriteString("Low Stock Alert - Inventory Management System\n\n")
	b.WriteString("Dear Administrator,\n\n")
	fmt.Fprintf(&b, "We have detected %d products that are at or below their reorder levels:\n\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (SKU: %s)\n", p.Name, p.SKU)
		fmt.Fprintf(&b, "  Current Stock: %d\n", p.QuantityInStock)
		fmt.Fprintf(&b, "  Reorder Level: %d\n", p.ReorderLevel)
		fmt.Fprintf(&b, "  Shortage: %d\n\n", reports.Shortage(p.ReorderLevel, p.QuantityInStock))
	}
	b.WriteString("Please review these items and consider placing reorders to maintain adequate inventory levels.\n\n")
	b.WriteString("Best regards,\nInventory Management System\n")
	return b.String()
}

func lowStockHTMLBody(products []reports.ProductRow) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif; color: #333;">`)
	b.WriteString(`<h2 style="color: #e74c3c;">Low Stock Alert</h2>`)
	b.WriteString(`<p>Dear Administrator,</p>`)
	fmt.Fprintf(&b, `<p>We have detected <strong>%d products</strong> that are at or below their reorder levels:</p>`, len(products))
	b.WriteString(`<table style="border-collapse: collapse; width: 100%;"><thead><tr>`)
	for _, h := range []string{"Product", "SKU", "Current", "Min Level", "Shortage"} {
		fmt.Fprintf(&b, `<th style="padding: 8px; border: 1px solid #dee2e6; text-align: left;">%s</th>`, h)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, p := range products {
		fmt.Fprintf(&b, `<tr><td style="padding: 8px; border: 1px solid #dee2e6;">%s</td><td style="padding: 8px; border: 1px solid #dee2e6;">%s</td><td style="padding: 8px; border: 1px solid #dee2e6;">%d</td><td style="padding: 8px; border: 1px solid #dee2e6;">%d</td><td style="padding: 8px; border: 1px solid #dee2e6;">%d</td></tr>`,
			p.Name, p.SKU, p.QuantityInStock, p.ReorderLevel, reports.Shortage(p.ReorderLevel, p.QuantityInStock))
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<p>Please review these items and consider placing reorders to maintain adequate inventory levels.</p>`)
	b.WriteString(`</body></html>`)
	return b.String()
}
