package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/MALVIS-KAGIRI/Inventory-management3/internal/jobs"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/mailer"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
)

const defaultSummaryWindowDays = 7

// WeeklySummaryJob mails the trailing-week KPI snapshot to administrators.
type WeeklySummaryJob struct {
	Service    *reports.Service
	Mailer     *mailer.Mailer
	Recipients []string
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewWeeklySummaryJob initialises the summary handler.
func NewWeeklySummaryJob(service *reports.Service, m *mailer.Mailer, recipients []string, logger *slog.Logger, metrics *jobmetrics.Metrics) *WeeklySummaryJob {
	return &WeeklySummaryJob{
		Service:    service,
		Mailer:     m,
		Recipients: recipients,
		Logger:     logger,
		Metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WithClock overrides the job clock for testing.
func (j *WeeklySummaryJob) WithClock(fn func() time.Time) {
	if fn != nil {
		j.clock = fn
	}
}

// Handle generates the KPI snapshot and mails it.
func (j *WeeklySummaryJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("weekly summary: handler not configured")
	}
	var payload WeeklySummaryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WindowDays <= 0 {
		payload.WindowDays = defaultSummaryWindowDays
	}

	tracker := j.Metrics.Track(TaskTypeWeeklySummary)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	now := j.clock()
	params := reports.Params{
		From: now.AddDate(0, 0, -payload.WindowDays),
		To:   now,
	}
	rows, err := j.Service.CustomReport(ctx, params)
	if err != nil {
		resultErr = err
		return err
	}

	if len(j.Recipients) == 0 {
		j.Logger.Warn("weekly summary has no recipients")
		return nil
	}

	subject := fmt.Sprintf("Weekly Business Summary - %s", now.Format("2006-01-02"))
	if err := j.Mailer.Send(j.Recipients, subject, summaryTextBody(rows), ""); err != nil {
		resultErr = err
		return err
	}
	j.Logger.Info("weekly summary sent", slog.Int("recipients", len(j.Recipients)))
	return nil
}

func summaryTextBody(rows []reports.Row) string {
	var b strings.Builder
	b.WriteString("Weekly Business Summary - Inventory Management System\n\n")
	section := ""
	for _, row := range rows {
		if s, _ := row["report_section"].(string); s != section {
			section = s
			fmt.Fprintf(&b, "%s\n", section)
		}
		fmt.Fprintf(&b, "  %v: %v (%v)\n", row["metric"], row["value"], row["period"])
	}
	b.WriteString("\nBest regards,\nInventory Management System\n")
	return b.String()
}
