package handlers

import (
	"context"
	"time"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/currency"
	"sautipay/internal/models"
	"sautipay/internal/premium"
	"sautipay/internal/services"
	"sautipay/internal/settlement"
	"sautipay/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
}

type TransactionStore interface {
	Transactions(ctx context.Context, scope store.Scope) ([]models.Transaction, error)
	Transaction(ctx context.Context, scope store.Scope, id string) (models.Transaction, error)
}

type BrokerStore interface {
	Brokers(ctx context.Context, scope store.Scope) ([]models.Broker, error)
	Broker(ctx context.Context, scope store.Scope, id string) (models.Broker, error)
	CreateBroker(ctx context.Context, broker models.Broker) (models.Broker, error)
	UpdateBroker(ctx context.Context, scope store.Scope, id string, patch store.BrokerPatch) (models.Broker, error)
	DeleteBroker(ctx context.Context, scope store.Scope, id string) error
}

type CommissionStore interface {
	Commissions(ctx context.Context, scope store.Scope) ([]models.Commission, error)
	UpdateCommissionStatus(ctx context.Context, scope store.Scope, id string, role auth.Role, to approval.Status) (models.Commission, error)
}

type RefundStore interface {
	Refunds(ctx context.Context, scope store.Scope) ([]models.Refund, error)
	CreateRefund(ctx context.Context, scope store.Scope, refund models.Refund) (models.Refund, error)
	UpdateRefundStatus(ctx context.Context, scope store.Scope, id string, role auth.Role, to approval.Status) (models.Refund, error)
}

type ReceiptStore interface {
	Receipts(ctx context.Context, scope store.Scope) ([]models.Receipt, error)
}

type SettlementStore interface {
	Settlements(ctx context.Context, scope store.Scope) ([]models.Settlement, error)
	SettlementCompanies() []string
	UpdateSettlementStatus(ctx context.Context, scope store.Scope, id string, role auth.Role, to approval.Status) (models.Settlement, error)
}

type ClaimStore interface {
	CreateClaim(ctx context.Context, claim models.Claim) (models.Claim, error)
	ClaimByReference(ctx context.Context, scope store.Scope, reference string) (models.Claim, error)
	UpdateClaimStatus(ctx context.Context, scope store.Scope, reference string, role auth.Role, to approval.Status, notes string) (models.Claim, error)
}

type CompanyStore interface {
	Companies(ctx context.Context) ([]models.Company, error)
	UpdateCompanyStatus(ctx context.Context, id string, role auth.Role, to approval.Status) (models.Company, error)
}

type SettingsStore interface {
	Fees(ctx context.Context) ([]premium.DeductibleFee, error)
	ReplaceFees(ctx context.Context, fees []premium.DeductibleFee) ([]premium.DeductibleFee, error)
	GeneralSettings(ctx context.Context) (models.GeneralSettings, error)
	UpdateGeneralSettings(ctx context.Context, patch store.GeneralSettingsPatch) (models.GeneralSettings, error)
}

type RateTable interface {
	currency.Provider
	Known(code string) bool
	SetRate(code string, rate decimal.Decimal) error
	SetMarkup(pct decimal.Decimal) error
	Markup() decimal.Decimal
	Snapshot() []currency.Quote
}

type PaymentProcessor interface {
	Process(ctx context.Context, req services.PaymentRequest) (services.PaymentResult, error)
}

type SettlementChecker interface {
	Status(companyID string, now time.Time) settlement.Status
}

type Resetter interface {
	Reset() error
}

// Repository is everything the handlers read and write. *store.Memory
// satisfies it.
type Repository interface {
	UserStore
	TransactionStore
	BrokerStore
	CommissionStore
	RefundStore
	ReceiptStore
	SettlementStore
	ClaimStore
	CompanyStore
	SettingsStore
	Resetter
}
