// Package store holds the process-local repository backing the API. It is
// built once at startup, injected into handlers and services, and reseeded
// with Reset between tests.
package store

import (
	"errors"
	"sync"
	"time"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/currency"
	"sautipay/internal/models"
	"sautipay/internal/premium"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Scope limits reads and writes to one company. The zero value sees every
// company.
type Scope struct {
	CompanyID string
}

func AllCompanies() Scope {
	return Scope{}
}

// ScopeFor returns the scope a principal is confined to. Owners may narrow
// to a requested company; everyone else is pinned to their own.
func ScopeFor(p auth.Principal, requested string) Scope {
	if p.Role == auth.RoleOwner {
		return Scope{CompanyID: requested}
	}
	return Scope{CompanyID: p.CompanyID}
}

func (s Scope) Allows(companyID string) bool {
	return s.CompanyID == "" || s.CompanyID == companyID
}

type Memory struct {
	rates currency.Provider
	clock func() time.Time

	mu          sync.RWMutex
	users       []models.User
	companies   []models.Company
	brokers     []models.Broker
	txns        []models.Transaction
	commissions []models.Commission
	refunds     []models.Refund
	receipts    []models.Receipt
	settlements []models.Settlement
	claims      []models.Claim
	payments    []models.Payment
	fees        []premium.DeductibleFee
	general     models.GeneralSettings
}

func NewMemory(rates currency.Provider, clock func() time.Time) (*Memory, error) {
	if clock == nil {
		clock = time.Now
	}
	m := &Memory{rates: rates, clock: clock}
	if err := m.Reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset discards every change and reloads the seed data.
func (m *Memory) Reset() error {
	data, err := buildSeed(m.rates, m.clock())
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = data.users
	m.companies = data.companies
	m.brokers = data.brokers
	m.txns = data.transactions
	m.commissions = data.commissions
	m.refunds = data.refunds
	m.receipts = data.receipts
	m.settlements = data.settlements
	m.claims = data.claims
	m.payments = nil
	m.fees = premium.DefaultFees()
	m.general = data.general
	return nil
}

func (m *Memory) now() time.Time {
	return m.clock()
}

func scoped[T any](items []T, scope Scope, companyOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if scope.Allows(companyOf(item)) {
			out = append(out, item)
		}
	}
	return out
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

// transition moves items[i] through machine. The slice element is only
// replaced when the transition is allowed.
func transition[T approval.Approvable](items []T, i int, machine *approval.Machine, role auth.Role, to approval.Status, set func(T, approval.Status) T) (T, error) {
	updated, err := approval.Transition(machine, role, items[i], to, set)
	if err != nil {
		return items[i], err
	}
	items[i] = updated
	return updated, nil
}
