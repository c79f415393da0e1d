package models

import (
	"time"

	"sautipay/internal/approval"
	"sautipay/internal/auth"

	"github.com/shopspring/decimal"
)

const (
	TransactionSuccessful = "Successful"
	TransactionFailed     = "Failed"

	BrokerActive   = "Active"
	BrokerInactive = "Inactive"

	ReceiptIssued = "Issued"

	PaymentCompleted = "Completed"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	CompanyID    string    `json:"companyId,omitempty"`
}

func (u User) Principal() auth.Principal {
	return auth.Principal{ID: u.ID, Email: u.Email, Role: u.Role, CompanyID: u.CompanyID}
}

type Company struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Country   string          `json:"country"`
	Email     string          `json:"email"`
	Status    approval.Status `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (c Company) CurrentStatus() approval.Status { return c.Status }

type Broker struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"companyId"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type Transaction struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	Date          time.Time       `json:"date"`
	CustomerName  string          `json:"customerName"`
	PolicyNumber  string          `json:"policyNumber"`
	BrokerID      string          `json:"brokerId"`
	GrossPremium  decimal.Decimal `json:"grossPremium"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
}

// TransactionView adds the columns derived from the current fee settings.
type TransactionView struct {
	Transaction
	NetPremium     decimal.Decimal `json:"netPremium"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Commission     decimal.Decimal `json:"commission"`
}

type Commission struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"companyId"`
	TransactionID    string          `json:"transactionId"`
	BrokerID         string          `json:"brokerId"`
	BrokerName       string          `json:"brokerName"`
	Date             time.Time       `json:"date"`
	NetPremium       decimal.Decimal `json:"netPremium"`
	CommissionRate   decimal.Decimal `json:"commissionRate"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	Currency         string          `json:"currency"`
	Status           approval.Status `json:"status"`
}

func (c Commission) CurrentStatus() approval.Status { return c.Status }

type Refund struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	TransactionID string          `json:"transactionId"`
	CustomerName  string          `json:"customerName"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Reason        string          `json:"reason"`
	Date          time.Time       `json:"date"`
	Status        approval.Status `json:"status"`
}

func (r Refund) CurrentStatus() approval.Status { return r.Status }

type Receipt struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	TransactionID string          `json:"transactionId"`
	ReceiptNumber string          `json:"receiptNumber"`
	CustomerName  string          `json:"customerName"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status"`
}

type Settlement struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"companyId"`
	Date             string          `json:"date"`
	SettledAmount    decimal.Decimal `json:"settledAmount"`
	Currency         string          `json:"currency"`
	TransactionCount int             `json:"transactionCount"`
	Status           approval.Status `json:"status"`
}

func (s Settlement) CurrentStatus() approval.Status { return s.Status }

type Claim struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	CompanyID    string          `json:"companyId"`
	PolicyNumber string          `json:"policyNumber"`
	ClaimantName string          `json:"claimantName"`
	Email        string          `json:"email,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
	Notes        string          `json:"notes,omitempty"`
	Status       approval.Status `json:"status"`
	SubmittedAt  time.Time       `json:"submittedAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (c Claim) CurrentStatus() approval.Status { return c.Status }

type Payment struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	CompanyID     string          `json:"companyId"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Status        string          `json:"status"`
	ProcessedAt   time.Time       `json:"processedAt"`
}

type GeneralSettings struct {
	CompanyName          string `json:"companyName"`
	SupportEmail         string `json:"supportEmail"`
	DefaultCurrency      string `json:"defaultCurrency"`
	Timezone             string `json:"timezone"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}
