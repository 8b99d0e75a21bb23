package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)
	token, err := ti.Issue(9)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotUserID int64
	var sawUser bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, sawUser = FromContext(r.Context())
	})
	unauthorized := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}
	handler := Middleware(ti, unauthorized)(next)

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotUserID, sawUser = 0, false
			req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusOK {
				if !sawUser || gotUserID != 9 {
					t.Fatalf("user id not propagated: %d %v", gotUserID, sawUser)
				}
			}
		})
	}
}
