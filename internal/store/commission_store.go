package store

import (
	"context"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/models"
)

func commissionCompany(c models.Commission) string { return c.CompanyID }

func (m *Memory) Commissions(_ context.Context, scope Scope) ([]models.Commission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scoped(m.commissions, scope, commissionCompany), nil
}

// UpdateCommissionStatus leaves the record untouched when the transition is
// rejected.
func (m *Memory) UpdateCommissionStatus(_ context.Context, scope Scope, id string, role auth.Role, to approval.Status) (models.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.commissions, func(c models.Commission) bool { return c.ID == id && scope.Allows(c.CompanyID) })
	if i < 0 {
		return models.Commission{}, ErrNotFound
	}
	return transition(m.commissions, i, approval.Commissions, role, to, func(c models.Commission, s approval.Status) models.Commission {
		c.Status = s
		return c
	})
}
