package store

import (
	"context"
	"strings"

	"sautipay/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BrokerPatch struct {
	Name           *string
	Email          *string
	Phone          *string
	CommissionRate *decimal.Decimal
	Status         *string
}

func brokerCompany(b models.Broker) string { return b.CompanyID }

func (m *Memory) Brokers(_ context.Context, scope Scope) ([]models.Broker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scoped(m.brokers, scope, brokerCompany), nil
}

func (m *Memory) Broker(_ context.Context, scope Scope, id string) (models.Broker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.brokerIndex(scope, id)
	if i < 0 {
		return models.Broker{}, ErrNotFound
	}
	return m.brokers[i], nil
}

func (m *Memory) CreateBroker(_ context.Context, broker models.Broker) (models.Broker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.brokerEmailTaken(broker.CompanyID, broker.Email, "") {
		return models.Broker{}, ErrConflict
	}
	broker.ID = uuid.NewString()
	broker.CreatedAt = m.now()
	if broker.Status == "" {
		broker.Status = models.BrokerActive
	}
	m.brokers = append(m.brokers, broker)
	return broker, nil
}

func (m *Memory) UpdateBroker(_ context.Context, scope Scope, id string, patch BrokerPatch) (models.Broker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.brokerIndex(scope, id)
	if i < 0 {
		return models.Broker{}, ErrNotFound
	}
	broker := m.brokers[i]
	if patch.Email != nil && m.brokerEmailTaken(broker.CompanyID, *patch.Email, broker.ID) {
		return models.Broker{}, ErrConflict
	}
	if patch.Name != nil {
		broker.Name = *patch.Name
	}
	if patch.Email != nil {
		broker.Email = *patch.Email
	}
	if patch.Phone != nil {
		broker.Phone = *patch.Phone
	}
	if patch.CommissionRate != nil {
		broker.CommissionRate = *patch.CommissionRate
	}
	if patch.Status != nil {
		broker.Status = *patch.Status
	}
	m.brokers[i] = broker
	return broker, nil
}

func (m *Memory) DeleteBroker(_ context.Context, scope Scope, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.brokerIndex(scope, id)
	if i < 0 {
		return ErrNotFound
	}
	m.brokers = append(m.brokers[:i], m.brokers[i+1:]...)
	return nil
}

func (m *Memory) brokerIndex(scope Scope, id string) int {
	return indexOf(m.brokers, func(b models.Broker) bool { return b.ID == id && scope.Allows(b.CompanyID) })
}

func (m *Memory) brokerEmailTaken(companyID, email, exceptID string) bool {
	return indexOf(m.brokers, func(b models.Broker) bool {
		return b.CompanyID == companyID && b.ID != exceptID && strings.EqualFold(b.Email, email)
	}) >= 0
}
