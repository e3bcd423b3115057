package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/earnlearn/internal/auth"
	"github.com/dukerupert/earnlearn/internal/database"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/store"
)

func setupAuthMiddlewareDB(t *testing.T) (*store.SessionStore, *store.AccountStore, *store.ChildStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSessionStore(db, 0), store.NewAccountStore(db), store.NewChildStore(db)
}

func mustNotReach(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	})
}

func TestRequireAuthNoToken(t *testing.T) {
	ss, as, _ := setupAuthMiddlewareDB(t)

	rec := httptest.NewRecorder()
	RequireAuth(ss, as)(mustNotReach(t)).ServeHTTP(rec, httptest.NewRequest("GET", "/api/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	ss, as, _ := setupAuthMiddlewareDB(t)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
	rec := httptest.NewRecorder()
	RequireAuth(ss, as)(mustNotReach(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	ss, as, cs := setupAuthMiddlewareDB(t)

	child, _ := cs.Create("ARIA01", "Aria", "🐱")
	acct, _ := as.Create("aria", "hash", model.RoleChild, &child.ID)
	sess, _ := ss.Create(acct.ID)

	var gotAC auth.AuthContext
	handler := RequireAuth(ss, as)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected AuthContext in request context")
		}
		gotAC = ac
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotAC.AccountID != acct.ID {
		t.Errorf("AccountID = %d, want %d", gotAC.AccountID, acct.ID)
	}
	if gotAC.Role != model.RoleChild {
		t.Errorf("Role = %q, want %q", gotAC.Role, model.RoleChild)
	}
	if gotAC.ChildID != child.ID {
		t.Errorf("ChildID = %d, want %d", gotAC.ChildID, child.ID)
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name string
		ac   *auth.AuthContext
		want int
	}{
		{"parent allowed", &auth.AuthContext{Role: model.RoleParent}, http.StatusOK},
		{"child forbidden", &auth.AuthContext{Role: model.RoleChild, ChildID: 1}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/payday", nil)
			if tc.ac != nil {
				req = req.WithContext(auth.WithAuth(context.Background(), *tc.ac))
			}
			rec := httptest.NewRecorder()
			RequireRole(model.RoleParent)(ok).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
