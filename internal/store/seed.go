package store

import (
	"fmt"
	"sync"
	"time"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/currency"
	"sautipay/internal/models"
	"sautipay/internal/premium"

	"github.com/shopspring/decimal"
)

// SeedPassword is the password of every seeded user.
const SeedPassword = "password123"

const (
	CompanySauti  = "cmp-sauti"
	CompanySafari = "cmp-safari"
	CompanyKili   = "cmp-kili"
)

var (
	seedHashOnce sync.Once
	seedHash     string
	seedHashErr  error
)

func seedPasswordHash() (string, error) {
	seedHashOnce.Do(func() {
		seedHash, seedHashErr = auth.HashPassword(SeedPassword)
	})
	return seedHash, seedHashErr
}

type seedData struct {
	users        []models.User
	companies    []models.Company
	brokers      []models.Broker
	transactions []models.Transaction
	commissions  []models.Commission
	refunds      []models.Refund
	receipts     []models.Receipt
	settlements  []models.Settlement
	claims       []models.Claim
	general      models.GeneralSettings
}

var seedCustomers = []string{
	"Amina Otieno", "Brian Mwangi", "Chloe Nakato", "David Kimani",
	"Esther Wanjiru", "Faith Mutesi", "George Ouma", "Halima Said",
	"Isaac Tumusiime", "Joyce Njeri", "Kevin Okello", "Lydia Uwase",
}

var (
	// Default fees are USD-denominated and percentages convert from the fee
	// currency, so seed premiums stay in currencies close to USD parity.
	seedCurrencies     = []string{"USD", "EUR", "GBP", "USD", "EUR", "GBP"}
	seedPaymentMethods = []string{"M-Pesa", "Card", "Bank Transfer"}
)

func buildSeed(rates currency.Provider, now time.Time) (seedData, error) {
	hash, err := seedPasswordHash()
	if err != nil {
		return seedData{}, fmt.Errorf("hash seed password: %w", err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	data := seedData{
		general: models.GeneralSettings{
			CompanyName:          "Sauti Pay",
			SupportEmail:         "support@sautipay.test",
			DefaultCurrency:      currency.Base,
			Timezone:             "Africa/Nairobi",
			NotificationsEnabled: true,
		},
	}

	data.companies = []models.Company{
		{ID: CompanySauti, Name: "Sauti Travels Ltd", Country: "KE", Email: "finance@sautitravels.test", Status: approval.Active, CreatedAt: today.AddDate(-1, 0, 0)},
		{ID: CompanySafari, Name: "Safari Cover Insurance", Country: "UG", Email: "accounts@safaricover.test", Status: approval.Active, CreatedAt: today.AddDate(0, -8, 0)},
		{ID: CompanyKili, Name: "Kilimanjaro Assurance", Country: "TZ", Email: "ops@kiliassurance.test", Status: approval.Suspended, CreatedAt: today.AddDate(0, -3, 0)},
	}

	data.users = []models.User{
		{ID: "usr-001", Name: "Grace Achieng", Email: "user@sautipay.test", PasswordHash: hash, Role: auth.RoleUser, CompanyID: CompanySauti},
		{ID: "usr-002", Name: "Peter Kamau", Email: "admin@sautipay.test", PasswordHash: hash, Role: auth.RoleAdmin, CompanyID: CompanySauti},
		{ID: "usr-003", Name: "Ruth Namubiru", Email: "admin@safaricover.test", PasswordHash: hash, Role: auth.RoleAdmin, CompanyID: CompanySafari},
		{ID: "usr-004", Name: "Platform Owner", Email: "owner@sautipay.test", PasswordHash: hash, Role: auth.RoleOwner},
	}

	data.brokers = []models.Broker{
		{ID: "brk-001", CompanyID: CompanySauti, Name: "Jambo Brokers", Email: "hello@jambobrokers.test", Phone: "+254700000001", CommissionRate: decimal.NewFromInt(5), Status: models.BrokerActive, CreatedAt: today.AddDate(0, -10, 0)},
		{ID: "brk-002", CompanyID: CompanySauti, Name: "Savannah Agents", Email: "desk@savannahagents.test", Phone: "+254700000002", CommissionRate: decimal.RequireFromString("7.5"), Status: models.BrokerActive, CreatedAt: today.AddDate(0, -9, 0)},
		{ID: "brk-003", CompanyID: CompanySafari, Name: "Nile Insurance Agency", Email: "info@nileagency.test", Phone: "+256700000003", CommissionRate: decimal.NewFromInt(10), Status: models.BrokerActive, CreatedAt: today.AddDate(0, -7, 0)},
		{ID: "brk-004", CompanyID: CompanySafari, Name: "Lakeside Brokers", Email: "team@lakeside.test", Phone: "+256700000004", CommissionRate: decimal.NewFromInt(12), Status: models.BrokerInactive, CreatedAt: today.AddDate(0, -6, 0)},
	}
	brokersByCompany := map[string][]models.Broker{
		CompanySauti:  {data.brokers[0], data.brokers[1]},
		CompanySafari: {data.brokers[2], data.brokers[3]},
	}

	fees := premium.DefaultFees()
	for i := 0; i < 24; i++ {
		companyID := CompanySauti
		if i%3 == 2 {
			companyID = CompanySafari
		}
		broker := brokersByCompany[companyID][i%2]
		code := seedCurrencies[i%len(seedCurrencies)]
		rate, err := rates.Rate(code)
		if err != nil {
			return seedData{}, fmt.Errorf("seed transaction %d: %w", i, err)
		}
		status := models.TransactionSuccessful
		if i%7 == 6 {
			status = models.TransactionFailed
		}
		txn := models.Transaction{
			ID:            fmt.Sprintf("txn-%04d", i+1),
			CompanyID:     companyID,
			Date:          today.AddDate(0, 0, -(i + 1)).Add(time.Duration(8+i%10) * time.Hour),
			CustomerName:  seedCustomers[i%len(seedCustomers)],
			PolicyNumber:  fmt.Sprintf("POL-2024-%04d", 1000+i),
			BrokerID:      broker.ID,
			GrossPremium:  decimal.NewFromInt(int64(250 + 75*i)).Mul(rate).Round(2),
			Currency:      code,
			PaymentMethod: seedPaymentMethods[i%len(seedPaymentMethods)],
			Status:        status,
		}
		data.transactions = append(data.transactions, txn)

		if status == models.TransactionFailed {
			data.refunds = append(data.refunds, models.Refund{
				ID:            fmt.Sprintf("ref-%04d", len(data.refunds)+1),
				CompanyID:     companyID,
				TransactionID: txn.ID,
				CustomerName:  txn.CustomerName,
				Amount:        txn.GrossPremium,
				Currency:      txn.Currency,
				Reason:        "Payment reversed by provider",
				Date:          txn.Date.AddDate(0, 0, 1),
				Status:        approval.Pending,
			})
			continue
		}

		derived, err := premium.Derive(txn.GrossPremium, fees, txn.Currency, broker.CommissionRate, rates)
		if err != nil {
			return seedData{}, fmt.Errorf("seed commission %s: %w", txn.ID, err)
		}
		commissionStatus := approval.Pending
		if i%3 == 0 {
			commissionStatus = approval.Paid
		}
		data.commissions = append(data.commissions, models.Commission{
			ID:               fmt.Sprintf("com-%04d", len(data.commissions)+1),
			CompanyID:        companyID,
			TransactionID:    txn.ID,
			BrokerID:         broker.ID,
			BrokerName:       broker.Name,
			Date:             txn.Date,
			NetPremium:       derived.Net.Round(2),
			CommissionRate:   broker.CommissionRate,
			CommissionAmount: derived.Commission.Round(2),
			Currency:         txn.Currency,
			Status:           commissionStatus,
		})
		data.receipts = append(data.receipts, models.Receipt{
			ID:            fmt.Sprintf("rct-%04d", len(data.receipts)+1),
			CompanyID:     companyID,
			TransactionID: txn.ID,
			ReceiptNumber: fmt.Sprintf("RCT-%06d", 100000+i),
			CustomerName:  txn.CustomerName,
			Amount:        txn.GrossPremium,
			Currency:      txn.Currency,
			Date:          txn.Date,
			Status:        models.ReceiptIssued,
		})
	}

	for _, extra := range []struct {
		txn    int
		reason string
		status approval.Status
	}{
		{txn: 1, reason: "Trip cancelled", status: approval.Approved},
		{txn: 4, reason: "Duplicate charge", status: approval.Rejected},
		{txn: 8, reason: "Policy cancelled within cooling-off period", status: approval.Pending},
	} {
		txn := data.transactions[extra.txn]
		data.refunds = append(data.refunds, models.Refund{
			ID:            fmt.Sprintf("ref-%04d", len(data.refunds)+1),
			CompanyID:     txn.CompanyID,
			TransactionID: txn.ID,
			CustomerName:  txn.CustomerName,
			Amount:        txn.GrossPremium,
			Currency:      txn.Currency,
			Reason:        extra.reason,
			Date:          txn.Date.AddDate(0, 0, 2),
			Status:        extra.status,
		})
	}

	data.settlements = seedSettlements(today)

	data.claims = []models.Claim{
		{
			ID: "clm-001", Reference: "CLM-4F7A2C91", CompanyID: CompanySauti,
			PolicyNumber: "POL-2024-1000", ClaimantName: seedCustomers[0], Email: "amina@example.test",
			Amount: decimal.NewFromInt(1200), Currency: "USD",
			Description: "Trip cancellation due to flight disruption",
			Status:      approval.Pending, SubmittedAt: today.AddDate(0, 0, -2), UpdatedAt: today.AddDate(0, 0, -2),
		},
		{
			ID: "clm-002", Reference: "CLM-9B3E5D10", CompanyID: CompanySafari,
			PolicyNumber: "POL-2024-1002", ClaimantName: seedCustomers[2], Email: "chloe@example.test",
			Amount: decimal.NewFromInt(450), Currency: "USD",
			Description: "Lost baggage on return leg",
			Notes:       "Receipts verified",
			Status:      approval.Approved, SubmittedAt: today.AddDate(0, 0, -9), UpdatedAt: today.AddDate(0, 0, -5),
		},
	}
	return data, nil
}

func seedSettlements(today time.Time) []models.Settlement {
	amounts := map[string][]string{
		CompanySauti:  {"450.00", "550.00", "1320.40", "980.10", "1105.75", "760.00", "1432.20"},
		CompanySafari: {"320.50", "610.00", "845.25", "1210.00", "390.80", "1011.60", "505.45"},
	}
	var out []models.Settlement
	for _, companyID := range []string{CompanySauti, CompanySafari} {
		values := amounts[companyID]
		for i, raw := range values {
			daysAgo := i - 1
			if companyID == CompanySafari || i == 0 {
				daysAgo = i
			}
			status := approval.Paid
			if daysAgo <= 1 {
				status = approval.Pending
			}
			out = append(out, models.Settlement{
				ID:               fmt.Sprintf("stl-%s-%02d", companyID[4:], i+1),
				CompanyID:        companyID,
				Date:             today.AddDate(0, 0, -daysAgo).Format("2006-01-02"),
				SettledAmount:    decimal.RequireFromString(raw),
				Currency:         currency.Base,
				TransactionCount: 3 + i%4,
				Status:           status,
			})
		}
	}
	return out
}
