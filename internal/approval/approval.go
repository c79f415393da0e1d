// Package approval implements the shared status lifecycle used by refunds,
// commissions, settlements, claims and companies.
package approval

import (
	"errors"
	"fmt"

	"sautipay/internal/auth"
)

type Status string

const (
	Pending   Status = "Pending"
	Approved  Status = "Approved"
	Rejected  Status = "Rejected"
	Paid      Status = "Paid"
	Active    Status = "Active"
	Suspended Status = "Suspended"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("insufficient permissions for transition")
)

// Guard decides whether a role may perform a transition.
type Guard interface {
	Allow(role auth.Role) bool
}

type roleGuard map[auth.Role]struct{}

func (g roleGuard) Allow(role auth.Role) bool {
	_, ok := g[role]
	return ok
}

func RoleGuard(roles ...auth.Role) Guard {
	g := make(roleGuard, len(roles))
	for _, role := range roles {
		g[role] = struct{}{}
	}
	return g
}

type edge struct {
	from Status
	to   Status
}

type Machine struct {
	name   string
	edges  map[edge]Guard
	states map[Status]struct{}
}

// Rule declares from -> each of to, restricted by guard (nil means any role).
type Rule struct {
	From  Status
	To    []Status
	Guard Guard
}

func NewMachine(name string, rules ...Rule) *Machine {
	m := &Machine{
		name:   name,
		edges:  make(map[edge]Guard),
		states: make(map[Status]struct{}),
	}
	for _, rule := range rules {
		m.states[rule.From] = struct{}{}
		for _, to := range rule.To {
			m.states[to] = struct{}{}
			m.edges[edge{from: rule.From, to: to}] = rule.Guard
		}
	}
	return m
}

func (m *Machine) Name() string {
	return m.name
}

func (m *Machine) Knows(status Status) bool {
	_, ok := m.states[status]
	return ok
}

// Check validates from -> to for role without changing anything.
func (m *Machine) Check(role auth.Role, from, to Status) error {
	guard, ok := m.edges[edge{from: from, to: to}]
	if !ok {
		if !m.mayEnter(role, to) {
			return fmt.Errorf("%w: %s %s -> %s", ErrForbidden, m.name, from, to)
		}
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, m.name, from, to)
	}
	if guard != nil && !guard.Allow(role) {
		return fmt.Errorf("%w: %s %s -> %s", ErrForbidden, m.name, from, to)
	}
	return nil
}

// mayEnter reports whether role passes the guard of at least one rule into
// to. A role that can never set to is refused whatever the current state.
func (m *Machine) mayEnter(role auth.Role, to Status) bool {
	entered := false
	for e, guard := range m.edges {
		if e.to != to {
			continue
		}
		entered = true
		if guard == nil || guard.Allow(role) {
			return true
		}
	}
	return !entered
}

// Approvable is any record carrying a lifecycle status.
type Approvable interface {
	CurrentStatus() Status
}

// Transition returns a copy of record moved to status `to`, leaving the
// original untouched when the move is rejected.
func Transition[T Approvable](m *Machine, role auth.Role, record T, to Status, set func(T, Status) T) (T, error) {
	if err := m.Check(role, record.CurrentStatus(), to); err != nil {
		return record, err
	}
	return set(record, to), nil
}

var staff = RoleGuard(auth.RoleAdmin, auth.RoleOwner)

var (
	Refunds = NewMachine("refund",
		Rule{From: Pending, To: []Status{Approved, Rejected}, Guard: staff},
	)
	Commissions = NewMachine("commission",
		Rule{From: Pending, To: []Status{Paid}, Guard: staff},
	)
	Settlements = NewMachine("settlement",
		Rule{From: Pending, To: []Status{Paid}, Guard: staff},
	)
	Claims = NewMachine("claim",
		Rule{From: Pending, To: []Status{Approved, Rejected}, Guard: staff},
	)
	Companies = NewMachine("company",
		Rule{From: Active, To: []Status{Suspended}, Guard: RoleGuard(auth.RoleOwner)},
		Rule{From: Suspended, To: []Status{Active}, Guard: RoleGuard(auth.RoleOwner)},
	)
)
