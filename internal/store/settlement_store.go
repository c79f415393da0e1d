package store

import (
	"context"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/models"
	"sautipay/internal/settlement"
)

func settlementCompany(s models.Settlement) string { return s.CompanyID }

func (m *Memory) Settlements(_ context.Context, scope Scope) ([]models.Settlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scoped(m.settlements, scope, settlementCompany), nil
}

// SettlementCompanies lists active companies, in seed order.
func (m *Memory) SettlementCompanies() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.companies))
	for _, c := range m.companies {
		if c.Status == approval.Active {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (m *Memory) SettlementRecords(companyID string) []settlement.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []settlement.Record
	for _, s := range m.settlements {
		if s.CompanyID == companyID {
			records = append(records, settlement.Record{Date: s.Date, SettledAmount: s.SettledAmount})
		}
	}
	return records
}

func (m *Memory) UpdateSettlementStatus(_ context.Context, scope Scope, id string, role auth.Role, to approval.Status) (models.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.settlements, func(s models.Settlement) bool { return s.ID == id && scope.Allows(s.CompanyID) })
	if i < 0 {
		return models.Settlement{}, ErrNotFound
	}
	return transition(m.settlements, i, approval.Settlements, role, to, func(s models.Settlement, st approval.Status) models.Settlement {
		s.Status = st
		return s
	})
}
