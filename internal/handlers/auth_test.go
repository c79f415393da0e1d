package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"sautipay/internal/auth"
	"sautipay/internal/middleware"
	"sautipay/internal/store"
)

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@sautipay.test",
		"password": store.SeedPassword,
	}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var session *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			session = cookie
		}
	}
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("expected http-only session cookie, got %#v", session)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	me := httptest.NewRecorder()
	env.router.ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", me.Code)
	}
	var user struct {
		ID        string    `json:"id"`
		Role      auth.Role `json:"role"`
		CompanyID string    `json:"companyId"`
	}
	decodeData(t, me, &user)
	if user.ID != "usr-002" || user.Role != auth.RoleAdmin || user.CompanyID != store.CompanySauti {
		t.Fatalf("unexpected user %#v", user)
	}
	if bytes.Contains(me.Body.Bytes(), []byte("$2a$")) {
		t.Fatalf("password hash leaked: %s", me.Body.String())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	for _, body := range []map[string]string{
		{"email": "admin@sautipay.test", "password": "wrong-password"},
		{"email": "nobody@sautipay.test", "password": store.SeedPassword},
		{"email": "admin@sautipay.test", "password": "short"},
	} {
		rr := env.do(t, http.MethodPost, "/api/auth/login", body, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		if envl := decodeEnvelope(t, rr); envl.Success || envl.Message != "invalid credentials" {
			t.Fatalf("unexpected envelope %#v", envl)
		}
	}
}

func TestLoginValidationNamesField(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "not-an-email", "password": "x"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if envl := decodeEnvelope(t, rr); envl.Field != "email" {
		t.Fatalf("expected email field, got %#v", envl)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired session cookie, got %#v", cookies)
	}
}

func TestRoleCookieAloneIsNotASession(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	req.AddCookie(&http.Cookie{Name: "user_role", Value: "owner"})
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "forged"})
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.LoginRatePerMinute = 1
	router := env.handler.Routes()
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"email":"admin@sautipay.test","password":"wrong-password"}`)))
		req.RemoteAddr = "192.0.2.10:4000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
