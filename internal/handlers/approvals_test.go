package handlers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"sautipay/internal/approval"
	"sautipay/internal/auth"
	"sautipay/internal/models"
	"sautipay/internal/settlement"
	"sautipay/internal/store"

	"github.com/shopspring/decimal"
)

func TestCommissionPaidRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	pending := findCommission(t, env.mem, store.CompanySauti, approval.Pending)
	path := "/api/commissions/" + pending.ID

	rr := env.do(t, http.MethodPatch, path, map[string]string{"status": "Paid"}, &userSauti)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if envl := decodeEnvelope(t, rr); envl.Success || envl.Message != "insufficient permissions" {
		t.Fatalf("unexpected envelope %#v", envl)
	}
	unchanged := findCommissionByID(t, env.mem, pending.ID)
	if !reflect.DeepEqual(unchanged, pending) {
		t.Fatalf("record changed after rejected transition: %#v", unchanged)
	}

	rr = env.do(t, http.MethodPatch, path, map[string]string{"status": "paid"}, &adminSauti)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var updated models.Commission
	decodeData(t, rr, &updated)
	if updated.Status != approval.Paid {
		t.Fatalf("expected Paid, got %s", updated.Status)
	}

	rr = env.do(t, http.MethodPatch, path, map[string]string{"status": "Paid"}, &adminSauti)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for Paid -> Paid, got %d", rr.Code)
	}
	// A user gets the same refusal whatever state the record is in.
	rr = env.do(t, http.MethodPatch, path, map[string]string{"status": "Paid"}, &userSauti)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a user on a paid commission, got %d", rr.Code)
	}
}

func TestCommissionOtherTenantIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	pending := findCommission(t, env.mem, store.CompanySauti, approval.Pending)
	rr := env.do(t, http.MethodPatch, "/api/commissions/"+pending.ID, map[string]string{"status": "Paid"}, &adminSafari)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if findCommissionByID(t, env.mem, pending.ID).Status != approval.Pending {
		t.Fatalf("cross-tenant update applied")
	}
}

func TestCommissionStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	pending := findCommission(t, env.mem, store.CompanySauti, approval.Pending)
	for _, body := range []any{map[string]string{}, map[string]string{"status": "Approved"}, "{"} {
		rr := env.do(t, http.MethodPatch, "/api/commissions/"+pending.ID, body, &adminSauti)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%v: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestCommissionStoreFailureIsHidden(t *testing.T) {
	env := newTestEnv(t)
	env.handler.commissions = stubCommissionStore{
		updateFn: func(context.Context, store.Scope, string, auth.Role, approval.Status) (models.Commission, error) {
			return models.Commission{}, errors.New("disk on fire")
		},
	}
	rr := env.do(t, http.MethodPatch, "/api/commissions/com-0002", map[string]string{"status": "Paid"}, &adminSauti)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if envl := decodeEnvelope(t, rr); envl.Message != "internal server error" {
		t.Fatalf("expected generic message, got %q", envl.Message)
	}
}

func TestRefundApprovalRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	pending := findRefund(t, env.mem, store.CompanySauti, approval.Pending)
	path := "/api/refunds/" + pending.ID

	for _, status := range []string{"Approved", "Rejected"} {
		rr := env.do(t, http.MethodPatch, path, map[string]string{"status": status}, &userSauti)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", status, rr.Code)
		}
	}
	if findRefund(t, env.mem, store.CompanySauti, approval.Pending).ID != pending.ID {
		t.Fatalf("refund changed after rejected transition")
	}

	rr := env.do(t, http.MethodPatch, path, map[string]string{"status": "Rejected"}, &adminSauti)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodPatch, path, map[string]string{"status": "Approved"}, &adminSauti)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for Rejected -> Approved, got %d", rr.Code)
	}
}

func TestCreateRefund(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/refunds", map[string]string{"transactionId": "txn-0002", "reason": "Trip shortened"}, &userSauti)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	var refund models.Refund
	decodeData(t, rr, &refund)
	if refund.Status != approval.Pending || refund.CompanyID != store.CompanySauti || !refund.Amount.IsPositive() {
		t.Fatalf("unexpected refund %#v", refund)
	}

	// txn-0003 belongs to another company.
	rr = env.do(t, http.MethodPost, "/api/refunds", map[string]string{"transactionId": "txn-0003", "reason": "x"}, &userSauti)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodPost, "/api/refunds", map[string]string{"transactionId": "txn-0002"}, &userSauti)
	if rr.Code != http.StatusBadRequest || decodeEnvelope(t, rr).Field != "reason" {
		t.Fatalf("expected reason validation, got %d", rr.Code)
	}
}

func TestSettlementStatus(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/settlements/status", nil, &adminSauti)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var status settlement.Status
	decodeData(t, rr, &status)
	if status.CompanyID != store.CompanySauti || !status.IsTransferReady || !status.DailySum.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected status %#v", status)
	}

	var statuses []settlement.Status
	decodeData(t, env.do(t, http.MethodGet, "/api/settlements/status", nil, &owner), &statuses)
	if len(statuses) != 2 {
		t.Fatalf("expected one status per active company, got %d", len(statuses))
	}
	for _, s := range statuses {
		if s.CompanyID == store.CompanySafari && s.IsTransferReady {
			t.Fatalf("safari is below threshold")
		}
	}
}

func TestSettlementPaidRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	settlements, _ := env.mem.Settlements(context.Background(), store.Scope{CompanyID: store.CompanySauti})
	var pending models.Settlement
	for _, s := range settlements {
		if s.Status == approval.Pending {
			pending = s
			break
		}
	}
	if rr := env.do(t, http.MethodPatch, "/api/settlements/"+pending.ID, map[string]string{"status": "Paid"}, &userSauti); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPatch, "/api/settlements/"+pending.ID, map[string]string{"status": "Paid"}, &adminSauti); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func findCommissionByID(t *testing.T, mem *store.Memory, id string) models.Commission {
	t.Helper()
	commissions, _ := mem.Commissions(context.Background(), store.AllCompanies())
	for _, c := range commissions {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("commission %s not found", id)
	return models.Commission{}
}
