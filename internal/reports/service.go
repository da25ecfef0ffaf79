package reports

import (
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Options tunes the heuristic thresholds surfaced by compliance reports.
type Options struct {
	// AuditAdjustmentThreshold is the absolute adjustment quantity at which
	// a product is flagged for review. Placeholder anomaly rule.
	AuditAdjustmentThreshold int64
	// PriceDrift is the assumed fractional price change used by the
	// price-changes report while no price-history facts exist.
	PriceDrift float64
}

// DefaultOptions mirror the operational defaults.
func DefaultOptions() Options {
	return Options{AuditAdjustmentThreshold: 5, PriceDrift: 0.05}
}

// ForecastStrategy projects future period revenue from a historical average.
type ForecastStrategy interface {
	Forecast(baseline decimal.Decimal) []ForecastPoint
}

// ForecastPoint is one projected period.
type ForecastPoint struct {
	Offset  int // periods ahead, starting at 1
	Revenue decimal.Decimal
}

// CompoundGrowthForecast applies a fixed per-period growth rate. It is a
// naive placeholder model, kept pluggable on purpose.
type CompoundGrowthForecast struct {
	Rate    float64
	Periods int
}

// Forecast compounds the baseline by Rate for each projected period.
func (f CompoundGrowthForecast) Forecast(baseline decimal.Decimal) []ForecastPoint {
	periods := f.Periods
	if periods <= 0 {
		periods = 3
	}
	base, _ := baseline.Float64()
	points := make([]ForecastPoint, 0, periods)
	for i := 1; i <= periods; i++ {
		projected := base * math.Pow(1+f.Rate, float64(i))
		points = append(points, ForecastPoint{
			Offset:  i,
			Revenue: decimal.NewFromFloat(projected).Round(2),
		})
	}
	return points
}

// Service orchestrates report generation: query, metric computation and the
// per-report sort policy. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	repo     Repository
	cache    *Cache
	logger   *slog.Logger
	opts     Options
	forecast ForecastStrategy
	now      func() time.Time
}

// NewService wires a Repository with the cache helper and heuristics.
func NewService(repo Repository, cache *Cache, logger *slog.Logger, opts Options, forecast ForecastStrategy) *Service {
	if opts.AuditAdjustmentThreshold <= 0 {
		opts.AuditAdjustmentThreshold = DefaultOptions().AuditAdjustmentThreshold
	}
	if opts.PriceDrift <= 0 {
		opts.PriceDrift = DefaultOptions().PriceDrift
	}
	if forecast == nil {
		forecast = CompoundGrowthForecast{Rate: 0.05, Periods: 3}
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		opts:     opts,
		forecast: forecast,
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func derefName(name *string, placeholder string) string {
	if name == nil || *name == "" {
		return placeholder
	}
	return *name
}
