package store

import (
	"context"

	"sautipay/internal/models"
)

func transactionCompany(t models.Transaction) string { return t.CompanyID }

func (m *Memory) Transactions(_ context.Context, scope Scope) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scoped(m.txns, scope, transactionCompany), nil
}

func (m *Memory) Transaction(_ context.Context, scope Scope, id string) (models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.txns, func(t models.Transaction) bool { return t.ID == id && scope.Allows(t.CompanyID) })
	if i < 0 {
		return models.Transaction{}, ErrNotFound
	}
	return m.txns[i], nil
}
