package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	const apiKey = "test-api-key"

	tests := []struct {
		name    string
		target  string
		headers map[string]string
		want    int
	}{
		{"x-api-key header", "/api/v1/classify", map[string]string{"X-API-Key": apiKey}, http.StatusOK},
		{"bearer token", "/api/v1/classify", map[string]string{"Authorization": "Bearer " + apiKey}, http.StatusOK},
		{"key param", "/download?key=" + apiKey, nil, http.StatusOK},
		{"api_key param", "/download?api_key=" + apiKey, nil, http.StatusOK},
		{"missing", "/api/v1/classify", nil, http.StatusUnauthorized},
		{"wrong header", "/api/v1/classify", map[string]string{"X-API-Key": "wrong"}, http.StatusUnauthorized},
		{"short bearer", "/api/v1/classify", map[string]string{"Authorization": "Bear"}, http.StatusUnauthorized},
		{"empty bearer", "/api/v1/classify", map[string]string{"Authorization": "Bearer "}, http.StatusUnauthorized},
		{"lowercase bearer", "/api/v1/classify", map[string]string{"Authorization": "bearer " + apiKey}, http.StatusUnauthorized},
		{"header wins over query", "/download?key=wrong", map[string]string{"X-API-Key": apiKey}, http.StatusOK},
		{"bearer wins over query", "/download?key=wrong", map[string]string{"Authorization": "Bearer " + apiKey}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKeyAuth(apiKey)(okHandler())

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth_RejectionIsJSON(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if got := w.Body.String(); got != `{"error":"missing API key"}` {
		t.Errorf("body = %q", got)
	}
}

func TestAPIKeyAuth_EmptyConfiguredKeyStillRequiresKey(t *testing.T) {
	handler := APIKeyAuth("")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads?key=", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestCORS(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			handler := CORS(okHandler())

			req := httptest.NewRequest(method, "/download", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
			}
			if got := w.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition" {
				t.Errorf("Access-Control-Expose-Headers = %q", got)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/downloads", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if called {
		t.Error("next handler should not be called for OPTIONS request")
	}
}
