package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLowStockAlert scans for products at or below reorder level and
	// mails administrators.
	TaskTypeLowStockAlert = "report:lowstock"
	// TaskTypeWeeklySummary mails the KPI snapshot for the trailing week.
	TaskTypeWeeklySummary = "report:weekly_summary"
)

// Cron specs for the scheduled report jobs, evaluated in UTC.
const (
	CronLowStockAlert = "0 9 * * *"
	CronWeeklySummary = "0 8 * * 1"
)

// LowStockAlertPayload scopes an alert scan. Zero values scan everything.
type LowStockAlertPayload struct {
	CategoryID int64 `json:"category_id,omitempty"`
	SupplierID int64 `json:"supplier_id,omitempty"`
}

// NewLowStockAlertTask constructs the alert task.
func NewLowStockAlertTask(payload LowStockAlertPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLowStockAlert, data), nil
}

// WeeklySummaryPayload configures the summary window in days.
type WeeklySummaryPayload struct {
	WindowDays int `json:"window_days,omitempty"`
}

// NewWeeklySummaryTask constructs the weekly summary task.
func NewWeeklySummaryTask(payload WeeklySummaryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWeeklySummary, data), nil
}
