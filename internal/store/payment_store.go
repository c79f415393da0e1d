package store

import (
	"context"
	"fmt"
	"strings"

	"sautipay/internal/approval"
	"sautipay/internal/currency"
	"sautipay/internal/models"

	"github.com/google/uuid"
)

type PaymentRecord struct {
	Payment     models.Payment     `json:"payment"`
	Transaction models.Transaction `json:"transaction"`
	Receipt     models.Receipt     `json:"receipt"`
}

// RecordPayment stores a completed payment with its transaction and receipt,
// and adds the USD value to the company's settlement for today.
func (m *Memory) RecordPayment(_ context.Context, payment models.Payment, txn models.Transaction) (PaymentRecord, error) {
	usd, err := m.rates.Convert(payment.Amount, payment.Currency, currency.Base)
	if err != nil {
		return PaymentRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.companies, func(c models.Company) bool { return c.ID == payment.CompanyID }) < 0 {
		return PaymentRecord{}, fmt.Errorf("company %s: %w", payment.CompanyID, ErrNotFound)
	}
	now := m.now()

	txn.ID = uuid.NewString()
	txn.CompanyID = payment.CompanyID
	txn.Date = now
	txn.GrossPremium = payment.Amount
	txn.Currency = payment.Currency
	txn.PaymentMethod = payment.Method
	txn.Status = models.TransactionSuccessful
	m.txns = append(m.txns, txn)

	payment.ID = uuid.NewString()
	payment.TransactionID = txn.ID
	payment.Reference = "PAY-" + strings.ToUpper(strings.ReplaceAll(payment.ID, "-", "")[:10])
	payment.Status = models.PaymentCompleted
	payment.ProcessedAt = now
	m.payments = append(m.payments, payment)

	receipt := models.Receipt{
		ID:            uuid.NewString(),
		CompanyID:     txn.CompanyID,
		TransactionID: txn.ID,
		ReceiptNumber: fmt.Sprintf("RCT-%06d", 200000+len(m.receipts)),
		CustomerName:  txn.CustomerName,
		Amount:        txn.GrossPremium,
		Currency:      txn.Currency,
		Date:          now,
		Status:        models.ReceiptIssued,
	}
	m.receipts = append(m.receipts, receipt)

	today := now.Format("2006-01-02")
	i := indexOf(m.settlements, func(s models.Settlement) bool {
		return s.CompanyID == txn.CompanyID && s.Date == today && s.Status == approval.Pending
	})
	if i < 0 {
		m.settlements = append(m.settlements, models.Settlement{
			ID:        uuid.NewString(),
			CompanyID: txn.CompanyID,
			Date:      today,
			Currency:  currency.Base,
			Status:    approval.Pending,
		})
		i = len(m.settlements) - 1
	}
	m.settlements[i].SettledAmount = m.settlements[i].SettledAmount.Add(usd.Round(2))
	m.settlements[i].TransactionCount++

	return PaymentRecord{Payment: payment, Transaction: txn, Receipt: receipt}, nil
}

func (m *Memory) Payments(_ context.Context, scope Scope) ([]models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scoped(m.payments, scope, func(p models.Payment) string { return p.CompanyID }), nil
}
