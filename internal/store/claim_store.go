package store

import (
	"context"
	"fmt"
	"strings"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/models"

	"github.com/google/uuid"
)

// CreateClaim files a Pending claim against an existing policy number and
// assigns a CLM- reference.
func (m *Memory) CreateClaim(_ context.Context, claim models.Claim) (models.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.txns, func(t models.Transaction) bool { return strings.EqualFold(t.PolicyNumber, claim.PolicyNumber) })
	if i < 0 {
		return models.Claim{}, fmt.Errorf("policy %s: %w", claim.PolicyNumber, ErrNotFound)
	}
	id := uuid.New()
	claim.ID = id.String()
	claim.Reference = "CLM-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	claim.CompanyID = m.txns[i].CompanyID
	claim.PolicyNumber = m.txns[i].PolicyNumber
	claim.Status = approval.Pending
	claim.SubmittedAt = m.now()
	claim.UpdatedAt = claim.SubmittedAt
	m.claims = append(m.claims, claim)
	return claim, nil
}

func (m *Memory) ClaimByReference(_ context.Context, scope Scope, reference string) (models.Claim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.claimIndex(scope, reference)
	if i < 0 {
		return models.Claim{}, ErrNotFound
	}
	return m.claims[i], nil
}

func (m *Memory) UpdateClaimStatus(_ context.Context, scope Scope, reference string, role auth.Role, to approval.Status, notes string) (models.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.claimIndex(scope, reference)
	if i < 0 {
		return models.Claim{}, ErrNotFound
	}
	now := m.now()
	return transition(m.claims, i, approval.Claims, role, to, func(c models.Claim, s approval.Status) models.Claim {
		c.Status = s
		c.UpdatedAt = now
		if notes != "" {
			c.Notes = notes
		}
		return c
	})
}

func (m *Memory) claimIndex(scope Scope, reference string) int {
	return indexOf(m.claims, func(c models.Claim) bool {
		return strings.EqualFold(c.Reference, reference) && scope.Allows(c.CompanyID)
	})
}
