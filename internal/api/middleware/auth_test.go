package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigkaa/filehub/internal/service"
)

// mockResolver — мок TokenResolver.
type mockResolver struct {
	tokens map[string]string
}

func (m *mockResolver) Resolve(_ context.Context, token string) (string, error) {
	if userID, ok := m.tokens[token]; ok {
		return userID, nil
	}
	return "", service.ErrInvalidCredentials
}

// downResolver — резолвер с недоступным хранилищем сессий.
type downResolver struct{}

func (downResolver) Resolve(_ context.Context, _ string) (string, error) {
	return "", errors.New("проверка сессии: connection refused")
}

func newTestAuth() *Auth {
	return NewAuth(&mockResolver{tokens: map[string]string{"valid-token": "user-1"}})
}

// echoUserID — handler, возвращающий ID пользователя из контекста.
func echoUserID(t *testing.T, wantID string, wantOK bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if ok != wantOK {
			t.Errorf("ok = %v, ожидалось %v", ok, wantOK)
		}
		if userID != wantID {
			t.Errorf("userID = %q, ожидался %q", userID, wantID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

// TestAuth_Require_ValidToken проверяет пропуск запроса с действительным токеном.
func TestAuth_Require_ValidToken(t *testing.T) {
	handler := newTestAuth().Require(echoUserID(t, "user-1", true))

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set(TokenHeader, "valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, ожидался 200", rec.Code)
	}
}

// TestAuth_Require_Rejects проверяет 401 при отсутствующем и неизвестном токене.
func TestAuth_Require_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"без токена", ""},
		{"неизвестный токен", "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := newTestAuth().Require(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/files", nil)
			if tt.token != "" {
				req.Header.Set(TokenHeader, tt.token)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, ожидался 401", rec.Code)
			}
			if called {
				t.Error("handler не должен был вызываться")
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, ожидался application/json", ct)
			}
		})
	}
}

// TestAuth_Require_StoreDown проверяет, что недоступность хранилища
// сессий отдаётся как 500, а не маскируется под 401.
func TestAuth_Require_StoreDown(t *testing.T) {
	called := false
	handler := NewAuth(downResolver{}).Require(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set(TokenHeader, "valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, ожидался 500", rec.Code)
	}
	if called {
		t.Error("handler не должен был вызываться")
	}
}

// TestAuth_Optional проверяет анонимный проход без токена и с недействительным токеном.
func TestAuth_Optional(t *testing.T) {
	// С действительным токеном — ID в контексте
	handler := newTestAuth().Optional(echoUserID(t, "user-1", true))
	req := httptest.NewRequest(http.MethodGet, "/files/abc/data", nil)
	req.Header.Set(TokenHeader, "valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, ожидался 200", rec.Code)
	}

	// Без токена — анонимно, но запрос проходит
	handler = newTestAuth().Optional(echoUserID(t, "", false))
	req = httptest.NewRequest(http.MethodGet, "/files/abc/data", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("без токена: status = %d, ожидался 200", rec.Code)
	}

	// Недействительный токен — тоже анонимно, не 401
	handler = newTestAuth().Optional(echoUserID(t, "", false))
	req = httptest.NewRequest(http.MethodGet, "/files/abc/data", nil)
	req.Header.Set(TokenHeader, "bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("недействительный токен: status = %d, ожидался 200", rec.Code)
	}
}

// TestAuth_Optional_StoreDown проверяет, что при недоступном хранилище
// действительный токен не деградирует до анонимного доступа.
func TestAuth_Optional_StoreDown(t *testing.T) {
	called := false
	handler := NewAuth(downResolver{}).Optional(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/files/abc/data", nil)
	req.Header.Set(TokenHeader, "valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, ожидался 500", rec.Code)
	}
	if called {
		t.Error("handler не должен был вызываться")
	}

	// Запрос вовсе без токена хранилище не трогает и проходит анонимно
	req = httptest.NewRequest(http.MethodGet, "/files/abc/data", nil)
	rec = httptest.NewRecorder()
	NewAuth(downResolver{}).Optional(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("без токена при сбое хранилища: status = %d, ожидался 200", rec.Code)
	}
}
