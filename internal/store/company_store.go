package store

import (
	"context"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/models"
)

func (m *Memory) Companies(_ context.Context) ([]models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Company, len(m.companies))
	copy(out, m.companies)
	return out, nil
}

func (m *Memory) Company(_ context.Context, id string) (models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.companies, func(c models.Company) bool { return c.ID == id })
	if i < 0 {
		return models.Company{}, ErrNotFound
	}
	return m.companies[i], nil
}

func (m *Memory) UpdateCompanyStatus(_ context.Context, id string, role auth.Role, to approval.Status) (models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.companies, func(c models.Company) bool { return c.ID == id })
	if i < 0 {
		return models.Company{}, ErrNotFound
	}
	return transition(m.companies, i, approval.Companies, role, to, func(c models.Company, s approval.Status) models.Company {
		c.Status = s
		return c
	})
}
