package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tamvems/internal/db"
)

func testUser(role string) *db.User {
	return &db.User{ID: 7, Role: role, Division: "Finance"}
}

func callerEcho(t *testing.T, got *Caller) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := CallerFromContext(r.Context())
		if !ok {
			t.Fatalf("expected caller in context")
		}
		*got = c
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	m := NewMiddleware("test-secret")
	token, err := m.GenerateToken(testUser(db.RoleUser), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var caller Caller
	handler := m.RequireAuth(callerEcho(t, &caller))

	req := httptest.NewRequest("GET", "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if caller.UserID != 7 || caller.Role != db.RoleUser || caller.Division != "Finance" {
		t.Fatalf("unexpected caller %+v", caller)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	m := NewMiddleware("test-secret")

	expired, err := m.GenerateToken(testUser(db.RoleUser), -time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	foreign, err := NewMiddleware("other-secret").GenerateToken(testUser(db.RoleUser), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler must not run")
			}))
			req := httptest.NewRequest("GET", "/api/bookings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	m := NewMiddleware("test-secret")

	for _, role := range []string{db.RoleAdmin, db.RoleSuperAdmin} {
		token, _ := m.GenerateToken(testUser(role), time.Hour)
		var caller Caller
		handler := m.RequireAuth(m.RequireAdmin(callerEcho(t, &caller)))
		req := httptest.NewRequest("GET", "/admin/bookings", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200, got %d", role, rec.Code)
		}
	}

	token, _ := m.GenerateToken(testUser(db.RoleUser), time.Hour)
	handler := m.RequireAuth(m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	})))
	req := httptest.NewRequest("GET", "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
