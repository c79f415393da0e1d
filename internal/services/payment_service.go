package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sautipay/internal/models"
	"sautipay/internal/money"
	"sautipay/internal/notify"
	"sautipay/internal/settlement"
	"sautipay/internal/store"
	"sautipay/internal/validator"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount        = errors.New("amount must be a positive value with at most 2 decimals")
	ErrInvalidPaymentMethod = errors.New("method must be one of M-Pesa, Card, Bank Transfer")
	ErrIdempotencyMismatch  = errors.New("idempotency key reused with a different request")
)

var paymentMethods = map[string]struct{}{
	"M-Pesa":        {},
	"Card":          {},
	"Bank Transfer": {},
}

type PaymentStore interface {
	RecordPayment(ctx context.Context, payment models.Payment, txn models.Transaction) (store.PaymentRecord, error)
	SettlementRecords(companyID string) []settlement.Record
}

type SettlementPublisher interface {
	PublishSettlement(companyID string, status settlement.Status)
}

type PaymentRequest struct {
	IdempotencyKey string
	CompanyID      string
	CustomerName   string
	CustomerEmail  string
	PolicyNumber   string
	BrokerID       string
	Method         string
	Amount         decimal.Decimal
	Currency       string
}

func (r PaymentRequest) fingerprint() string {
	return strings.Join([]string{
		r.CompanyID, r.CustomerName, r.CustomerEmail, r.PolicyNumber,
		r.BrokerID, r.Method, r.Amount.String(), r.Currency,
	}, "|")
}

type PaymentResult struct {
	store.PaymentRecord
	Replayed bool `json:"replayed"`
}

type cachedPayment struct {
	fingerprint string
	record      store.PaymentRecord
}

type PaymentService struct {
	store     PaymentStore
	notifier  notify.Notifier
	hub       SettlementPublisher
	threshold decimal.Decimal
	logger    zerolog.Logger
	now       func() time.Time

	cache *cache.Cache

	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewPaymentService(paymentStore PaymentStore, notifier notify.Notifier, hub SettlementPublisher, threshold decimal.Decimal, idempotencyTTL time.Duration, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		store:     paymentStore,
		notifier:  notifier,
		hub:       hub,
		threshold: threshold,
		logger:    logger.With().Str("component", "payment_service").Logger(),
		now:       time.Now,
		cache:     cache.New(idempotencyTTL, 2*idempotencyTTL),
		keys:      make(map[string]*keyLock),
	}
}

// lockKey serialises requests sharing an idempotency key. Other keys are not
// blocked. The returned func releases the key.
func (s *PaymentService) lockKey(key string) func() {
	s.mu.Lock()
	l, ok := s.keys[key]
	if !ok {
		l = &keyLock{}
		s.keys[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.keys, key)
		}
		s.mu.Unlock()
	}
}

// Process records a simulated payment. Requests repeating an idempotency key
// return the first result instead of paying twice.
func (s *PaymentService) Process(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if err := validatePayment(req); err != nil {
		return PaymentResult{}, err
	}
	record, replayed, err := s.record(ctx, req)
	if err != nil {
		return PaymentResult{}, err
	}
	if replayed {
		s.logger.Info().Str("idempotency_key", req.IdempotencyKey).Str("reference", record.Payment.Reference).Msg("payment replayed")
		return PaymentResult{PaymentRecord: record, Replayed: true}, nil
	}
	s.logger.Info().
		Str("reference", record.Payment.Reference).
		Str("company_id", req.CompanyID).
		Str("amount", record.Payment.Amount.String()).
		Str("currency", req.Currency).
		Msg("payment processed")

	s.sendReceipt(ctx, req, record)
	s.publishSettlement(req.CompanyID)
	return PaymentResult{PaymentRecord: record}, nil
}

// record stores the payment once per idempotency key. The key stays locked
// only until the result is cached; receipts and pushes happen after.
func (s *PaymentService) record(ctx context.Context, req PaymentRequest) (store.PaymentRecord, bool, error) {
	if req.IdempotencyKey != "" {
		unlock := s.lockKey(req.IdempotencyKey)
		defer unlock()
		if cached, ok := s.cache.Get(req.IdempotencyKey); ok {
			entry := cached.(cachedPayment)
			if entry.fingerprint != req.fingerprint() {
				return store.PaymentRecord{}, false, ErrIdempotencyMismatch
			}
			return entry.record, true, nil
		}
	}

	record, err := s.store.RecordPayment(ctx,
		models.Payment{
			CompanyID:     req.CompanyID,
			Amount:        money.Round(req.Amount),
			Currency:      req.Currency,
			Method:        req.Method,
			CustomerEmail: req.CustomerEmail,
		},
		models.Transaction{
			CustomerName: strings.TrimSpace(req.CustomerName),
			PolicyNumber: strings.TrimSpace(req.PolicyNumber),
			BrokerID:     req.BrokerID,
		},
	)
	if err != nil {
		return store.PaymentRecord{}, false, fmt.Errorf("record payment: %w", err)
	}
	if req.IdempotencyKey != "" {
		s.cache.SetDefault(req.IdempotencyKey, cachedPayment{fingerprint: req.fingerprint(), record: record})
	}
	return record, false, nil
}

func (s *PaymentService) sendReceipt(ctx context.Context, req PaymentRequest, record store.PaymentRecord) {
	if req.CustomerEmail == "" || s.notifier == nil {
		return
	}
	_, err := s.notifier.Send(ctx, notify.Message{
		Type:      notify.ChannelEmail,
		Recipient: req.CustomerEmail,
		Template:  "payment_receipt",
		Data: map[string]string{
			"name":         req.CustomerName,
			"amount":       money.Format(record.Payment.Amount),
			"currency":     record.Payment.Currency,
			"policyNumber": record.Transaction.PolicyNumber,
			"reference":    record.Payment.Reference,
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("reference", record.Payment.Reference).Msg("payment receipt not sent")
	}
}

func (s *PaymentService) publishSettlement(companyID string) {
	if s.hub == nil {
		return
	}
	status := settlement.Check(s.store.SettlementRecords(companyID), s.now(), s.threshold)
	status.CompanyID = companyID
	s.hub.PublishSettlement(companyID, status)
}

func validatePayment(req PaymentRequest) error {
	if err := money.Positive(req.Amount); err != nil {
		return ErrInvalidAmount
	}
	if _, ok := paymentMethods[req.Method]; !ok {
		return ErrInvalidPaymentMethod
	}
	if err := validator.ValidateName(req.CustomerName); err != nil {
		return err
	}
	if err := validator.ValidatePolicyNumber(req.PolicyNumber); err != nil {
		return err
	}
	if req.CustomerEmail != "" {
		if err := validator.ValidateEmail(req.CustomerEmail); err != nil {
			return err
		}
	}
	return nil
}
