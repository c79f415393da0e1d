package store

import (
	"context"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/models"

	"github.com/google/uuid"
)

func refundCompany(r models.Refund) string { return r.CompanyID }

func (m *Memory) Refunds(_ context.Context, scope Scope) ([]models.Refund, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scoped(m.refunds, scope, refundCompany), nil
}

func (m *Memory) Refund(_ context.Context, scope Scope, id string) (models.Refund, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.refunds, func(r models.Refund) bool { return r.ID == id && scope.Allows(r.CompanyID) })
	if i < 0 {
		return models.Refund{}, ErrNotFound
	}
	return m.refunds[i], nil
}

// CreateRefund opens a Pending refund against a transaction visible in scope.
func (m *Memory) CreateRefund(_ context.Context, scope Scope, refund models.Refund) (models.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.txns, func(t models.Transaction) bool { return t.ID == refund.TransactionID && scope.Allows(t.CompanyID) })
	if i < 0 {
		return models.Refund{}, ErrNotFound
	}
	txn := m.txns[i]
	refund.ID = uuid.NewString()
	refund.CompanyID = txn.CompanyID
	refund.CustomerName = txn.CustomerName
	refund.Currency = txn.Currency
	if refund.Amount.IsZero() {
		refund.Amount = txn.GrossPremium
	}
	refund.Date = m.now()
	refund.Status = approval.Pending
	m.refunds = append(m.refunds, refund)
	return refund, nil
}

func (m *Memory) UpdateRefundStatus(_ context.Context, scope Scope, id string, role auth.Role, to approval.Status) (models.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.refunds, func(r models.Refund) bool { return r.ID == id && scope.Allows(r.CompanyID) })
	if i < 0 {
		return models.Refund{}, ErrNotFound
	}
	return transition(m.refunds, i, approval.Refunds, role, to, func(r models.Refund, s approval.Status) models.Refund {
		r.Status = s
		return r
	})
}
