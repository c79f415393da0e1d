package store

import (
	"context"

	"sautipay/internal/models"
)

func receiptCompany(r models.Receipt) string { return r.CompanyID }

func (m *Memory) Receipts(_ context.Context, scope Scope) ([]models.Receipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scoped(m.receipts, scope, receiptCompany), nil
}
