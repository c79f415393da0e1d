package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Source lists settlement records per company.
type Source interface {
	SettlementCompanies() []string
	SettlementRecords(companyID string) []Record
}

type Publisher interface {
	PublishSettlement(companyID string, status Status)
}

// Watcher re-runs Check on an interval and publishes each result. It only
// reports; it never initiates a transfer.
type Watcher struct {
	source    Source
	publisher Publisher
	threshold decimal.Decimal
	interval  time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	mu   sync.Mutex
	last map[string]bool
}

func NewWatcher(source Source, publisher Publisher, threshold decimal.Decimal, interval time.Duration, logger zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		source:    source,
		publisher: publisher,
		threshold: threshold,
		interval:  interval,
		logger:    logger.With().Str("component", "settlement_watcher").Logger(),
		now:       time.Now,
		last:      make(map[string]bool),
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.logger.Info().Dur("interval", w.interval).Str("threshold", w.threshold.String()).Msg("settlement watcher started")
	w.Tick()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("settlement watcher stopped")
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Tick checks every company once and returns the computed statuses.
func (w *Watcher) Tick() []Status {
	now := w.now()
	companies := w.source.SettlementCompanies()
	statuses := make([]Status, 0, len(companies))
	for _, companyID := range companies {
		status := w.Status(companyID, now)
		statuses = append(statuses, status)

		w.mu.Lock()
		previous, seen := w.last[companyID]
		w.last[companyID] = status.IsTransferReady
		w.mu.Unlock()
		if !seen || previous != status.IsTransferReady {
			w.logger.Info().
				Str("company_id", companyID).
				Str("daily_sum", status.DailySum.String()).
				Bool("transfer_ready", status.IsTransferReady).
				Msg("settlement readiness changed")
		}
		if w.publisher != nil {
			w.publisher.PublishSettlement(companyID, status)
		}
	}
	return statuses
}

func (w *Watcher) Status(companyID string, now time.Time) Status {
	status := Check(w.source.SettlementRecords(companyID), now, w.threshold)
	status.CompanyID = companyID
	return status
}
