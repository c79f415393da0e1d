package store

import (
	"context"

	"sautipay/internal/models"
	"sautipay/internal/premium"
)

func (m *Memory) Fees(_ context.Context) ([]premium.DeductibleFee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]premium.DeductibleFee, len(m.fees))
	copy(out, m.fees)
	return out, nil
}

// ReplaceFees swaps the whole fee list; callers validate beforehand.
func (m *Memory) ReplaceFees(_ context.Context, fees []premium.DeductibleFee) ([]premium.DeductibleFee, error) {
	stored := make([]premium.DeductibleFee, len(fees))
	copy(stored, fees)
	m.mu.Lock()
	m.fees = stored
	m.mu.Unlock()
	return fees, nil
}

type GeneralSettingsPatch struct {
	CompanyName          *string `json:"companyName"`
	SupportEmail         *string `json:"supportEmail"`
	DefaultCurrency      *string `json:"defaultCurrency"`
	Timezone             *string `json:"timezone"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
}

func (m *Memory) GeneralSettings(_ context.Context) (models.GeneralSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.general, nil
}

func (m *Memory) UpdateGeneralSettings(_ context.Context, patch GeneralSettingsPatch) (models.GeneralSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if patch.CompanyName != nil {
		m.general.CompanyName = *patch.CompanyName
	}
	if patch.SupportEmail != nil {
		m.general.SupportEmail = *patch.SupportEmail
	}
	if patch.DefaultCurrency != nil {
		m.general.DefaultCurrency = *patch.DefaultCurrency
	}
	if patch.Timezone != nil {
		m.general.Timezone = *patch.Timezone
	}
	if patch.NotificationsEnabled != nil {
		m.general.NotificationsEnabled = *patch.NotificationsEnabled
	}
	return m.general, nil
}
