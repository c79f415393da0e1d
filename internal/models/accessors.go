package models

import (
	"time"

	"sautipay/internal/listing"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func companyField(companyID, key string) (string, bool) {
	if key == "companyId" {
		return companyID, true
	}
	return "", false
}

var TransactionAccessor = listing.Accessor[TransactionView]{
	Search: func(t TransactionView) []string {
		return []string{t.ID, t.CustomerName, t.PolicyNumber}
	},
	Date:     func(t TransactionView) time.Time { return t.Date },
	Status:   func(t TransactionView) string { return t.Status },
	Currency: func(t TransactionView) string { return t.Currency },
	Amount:   func(t TransactionView) decimal.Decimal { return t.GrossPremium },
	Field: func(t TransactionView, key string) (string, bool) {
		switch key {
		case "brokerId":
			return t.BrokerID, true
		case "paymentMethod":
			return t.PaymentMethod, true
		}
		return companyField(t.CompanyID, key)
	},
}

var BrokerAccessor = listing.Accessor[Broker]{
	Search: func(b Broker) []string { return []string{b.Name, b.Email, b.Phone} },
	Date:   func(b Broker) time.Time { return b.CreatedAt },
	Status: func(b Broker) string { return b.Status },
	Amount: func(b Broker) decimal.Decimal { return b.CommissionRate },
	Field:  func(b Broker, key string) (string, bool) { return companyField(b.CompanyID, key) },
}

var CommissionAccessor = listing.Accessor[Commission]{
	Search:   func(c Commission) []string { return []string{c.ID, c.BrokerName, c.TransactionID} },
	Date:     func(c Commission) time.Time { return c.Date },
	Status:   func(c Commission) string { return string(c.Status) },
	Currency: func(c Commission) string { return c.Currency },
	Amount:   func(c Commission) decimal.Decimal { return c.CommissionAmount },
	Field: func(c Commission, key string) (string, bool) {
		if key == "brokerId" {
			return c.BrokerID, true
		}
		return companyField(c.CompanyID, key)
	},
}

var RefundAccessor = listing.Accessor[Refund]{
	Search:   func(r Refund) []string { return []string{r.ID, r.CustomerName, r.TransactionID, r.Reason} },
	Date:     func(r Refund) time.Time { return r.Date },
	Status:   func(r Refund) string { return string(r.Status) },
	Currency: func(r Refund) string { return r.Currency },
	Amount:   func(r Refund) decimal.Decimal { return r.Amount },
	Field:    func(r Refund, key string) (string, bool) { return companyField(r.CompanyID, key) },
}

var ReceiptAccessor = listing.Accessor[Receipt]{
	Search:   func(r Receipt) []string { return []string{r.ReceiptNumber, r.CustomerName, r.TransactionID} },
	Date:     func(r Receipt) time.Time { return r.Date },
	Status:   func(r Receipt) string { return r.Status },
	Currency: func(r Receipt) string { return r.Currency },
	Amount:   func(r Receipt) decimal.Decimal { return r.Amount },
	Field:    func(r Receipt, key string) (string, bool) { return companyField(r.CompanyID, key) },
}

var SettlementAccessor = listing.Accessor[Settlement]{
	Search: func(s Settlement) []string { return []string{s.ID, s.Date} },
	Date: func(s Settlement) time.Time {
		parsed, _ := time.Parse(dateLayout, s.Date)
		return parsed
	},
	Status:   func(s Settlement) string { return string(s.Status) },
	Currency: func(s Settlement) string { return s.Currency },
	Amount:   func(s Settlement) decimal.Decimal { return s.SettledAmount },
	Field:    func(s Settlement, key string) (string, bool) { return companyField(s.CompanyID, key) },
}

var CompanyAccessor = listing.Accessor[Company]{
	Search: func(c Company) []string { return []string{c.Name, c.Country, c.Email} },
	Date:   func(c Company) time.Time { return c.CreatedAt },
	Status: func(c Company) string { return string(c.Status) },
}
