package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestRegister_CreatedThenConflict(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	body := `{"name":"Ana","email":"ana@test","password":"secret"}`

	w := doJSON(t, app.router, http.MethodPost, "/auth/register", "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, app.router, http.MethodPost, "/auth/register", "", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (esperaba 409)", w.Code, w.Body.String())
	}
}

func TestLogin_HappyPath(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	_ = doJSON(t, app.router, http.MethodPost, "/auth/register", "", `{"email":"ana@test","password":"secret"}`)

	w := doJSON(t, app.router, http.MethodPost, "/auth/login", "", `{"email":"ana@test","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var tr TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tr); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if tr.AccessToken == "" || tr.RefreshToken == "" || tr.TokenType != "Bearer" {
		t.Fatalf("tokens incompletos: %+v", tr)
	}

	// the access token must open protected routes
	w = doJSON(t, app.router, http.MethodGet, "/orders/mine", tr.AccessToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (esperaba 200 con access token)", w.Code, w.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	_ = doJSON(t, app.router, http.MethodPost, "/auth/register", "", `{"email":"ana@test","password":"secret"}`)

	w := doJSON(t, app.router, http.MethodPost, "/auth/login", "", `{"email":"ana@test","password":"wrong"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (esperaba 400)", w.Code, w.Body.String())
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	w := doJSON(t, app.router, http.MethodPost, "/auth/login", "", `{"email":"nobody@test","password":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (esperaba 400)", w.Code, w.Body.String())
	}
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	_ = doJSON(t, app.router, http.MethodPost, "/auth/register", "", `{"email":"ana@test","password":"secret"}`)
	w := doJSON(t, app.router, http.MethodPost, "/auth/login", "", `{"email":"ana@test","password":"secret"}`)
	var tr TokenResponse
	_ = json.Unmarshal(w.Body.Bytes(), &tr)

	w = doJSON(t, app.router, http.MethodPost, "/auth/refresh", tr.RefreshToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.AccessToken == "" {
		t.Fatalf("sin access token: body=%s err=%v", w.Body.String(), err)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	_, tok := app.seedUser(t, false)

	// an access token is not a refresh credential
	w := doJSON(t, app.router, http.MethodPost, "/auth/refresh", tok, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (esperaba 401)", w.Code, w.Body.String())
	}
}

func TestRefresh_RevokedRejected(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	_ = doJSON(t, app.router, http.MethodPost, "/auth/register", "", `{"email":"ana@test","password":"secret"}`)
	w := doJSON(t, app.router, http.MethodPost, "/auth/login", "", `{"email":"ana@test","password":"secret"}`)
	var tr TokenResponse
	_ = json.Unmarshal(w.Body.Bytes(), &tr)

	u, err := app.users.GetByEmail(context.Background(), "ana@test")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := app.store.Revoke(context.Background(), u.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	w = doJSON(t, app.router, http.MethodPost, "/auth/refresh", tr.RefreshToken, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (esperaba 401 tras revocar)", w.Code, w.Body.String())
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/orders"},
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/orders/mine"},
		{http.MethodGet, "/orders/some-id"},
	} {
		w := doJSON(t, app.router, route.method, route.path, "", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status=%d (esperaba 401 sin token)", route.method, route.path, w.Code)
		}
	}
}

func TestAuth_InactiveUserRejected(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, true)
	u, tok := app.seedUser(t, false)
	app.users.users[u.ID].Active = false

	w := doJSON(t, app.router, http.MethodGet, "/orders/mine", tok, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (esperaba 401 para cuenta inactiva)", w.Code, w.Body.String())
	}
}
