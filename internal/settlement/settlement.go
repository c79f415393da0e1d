// Package settlement computes the daily transfer-readiness indicator.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var DefaultThreshold = decimal.NewFromInt(1000)

type Record struct {
	Date          string          `json:"date"`
	SettledAmount decimal.Decimal `json:"settledAmount"`
}

type Status struct {
	CompanyID       string          `json:"companyId,omitempty"`
	Date            string          `json:"date"`
	DailySum        decimal.Decimal `json:"dailySum"`
	Threshold       decimal.Decimal `json:"threshold"`
	IsTransferReady bool            `json:"isTransferReady"`
	CheckedAt       time.Time       `json:"checkedAt"`
}

// Check sums the records dated today and reports readiness. Ready requires
// the sum to reach threshold during the 00:00 minute of now's location.
// Nothing is persisted; calling again a minute later reports not ready.
func Check(records []Record, now time.Time, threshold decimal.Decimal) Status {
	today := now.Format(dateLayout)
	sum := decimal.Zero
	for _, record := range records {
		if record.Date == today {
			sum = sum.Add(record.SettledAmount)
		}
	}
	return Status{
		Date:            today,
		DailySum:        sum,
		Threshold:       threshold,
		IsTransferReady: sum.GreaterThanOrEqual(threshold) && now.Hour() == 0 && now.Minute() == 0,
		CheckedAt:       now,
	}
}
