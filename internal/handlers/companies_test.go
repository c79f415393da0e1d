package handlers

import (
	"net/http"
	"testing"

	"sautipay/internal/approval"
	"sautipay/internal/models"
	"sautipay/internal/store"
)

func TestCompaniesAreOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	if rr := env.do(t, http.MethodGet, "/api/companies", nil, &adminSauti); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	var companies []models.Company
	envl := decodeData(t, env.do(t, http.MethodGet, "/api/companies", nil, &owner), &companies)
	if envl.Pagination.Total != 3 {
		t.Fatalf("expected 3 companies, got %d", envl.Pagination.Total)
	}
}

func TestUpdateCompanyStatus(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/companies/" + store.CompanySauti + "/status"
	if rr := env.do(t, http.MethodPatch, path, map[string]string{"status": "Suspended"}, &adminSauti); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	rr := env.do(t, http.MethodPatch, path, map[string]string{"status": "Suspended"}, &owner)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var company models.Company
	decodeData(t, rr, &company)
	if company.Status != approval.Suspended {
		t.Fatalf("expected Suspended, got %s", company.Status)
	}
	if rr := env.do(t, http.MethodPatch, path, map[string]string{"status": "Suspended"}, &owner); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPatch, "/api/companies/cmp-none/status", map[string]string{"status": "Active"}, &owner); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestResetRouteOnlyInDevelopment(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.AppEnv = "production"
	env.router = env.handler.Routes()
	if rr := env.do(t, http.MethodPost, "/api/dev/reset", nil, &owner); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside development, got %d", rr.Code)
	}

	env.handler.cfg.AppEnv = "development"
	env.router = env.handler.Routes()
	if rr := env.do(t, http.MethodDelete, "/api/brokers/brk-001", nil, &adminSauti); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/dev/reset", nil, &adminSauti); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/dev/reset", nil, &owner); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/brokers/brk-001", nil, &adminSauti); rr.Code != http.StatusOK {
		t.Fatalf("expected seed broker back, got %d", rr.Code)
	}
}
