package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/testfixtures"
)

func TestRequireSession(t *testing.T) {
	t.Parallel()

	principal := testfixtures.NewEmployeeFixture().Principal()

	tests := []struct {
		name           string
		cookie         *http.Cookie
		header         string
		validateErr    error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing credentials",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed authorization header",
			header:         "Token abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired session",
			header:         "Bearer expired-token",
			validateErr:    application.ErrSessionExpired,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "AUTH_SESSION_EXPIRED",
		},
		{
			name:           "revoked session",
			cookie:         &http.Cookie{Name: "session_token", Value: "revoked-token"},
			validateErr:    application.ErrSessionRevoked,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "AUTH_SESSION_REVOKED",
		},
		{
			name:           "unknown session",
			header:         "Bearer unknown-token",
			validateErr:    application.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "disabled account",
			header:         "Bearer disabled-token",
			validateErr:    application.ErrAccountDisabled,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid bearer token",
			header:         "Bearer live-token",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid cookie token",
			cookie:         &http.Cookie{Name: "session_token", Value: "live-token"},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			validator := &validatorStub{principal: principal, err: tc.validateErr}

			var captured application.Principal
			var sawPrincipal bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured, sawPrincipal = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			recorder := httptest.NewRecorder()
			RequireSession(validator, nil)(next).ServeHTTP(recorder, req)

			if recorder.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.expectedStatus, recorder.Code, recorder.Body.String())
			}
			if tc.expectedCode != "" {
				resp := decodeBody[errorResponse](t, recorder)
				if resp.ErrorCode != tc.expectedCode {
					t.Fatalf("expected error code %q, got %q", tc.expectedCode, resp.ErrorCode)
				}
			}
			if tc.expectedStatus == http.StatusOK {
				if !sawPrincipal {
					t.Fatalf("expected principal in downstream context")
				}
				if captured != principal {
					t.Fatalf("expected principal %+v, got %+v", principal, captured)
				}
			}
		})
	}
}

func TestRequestLogger_AttachesContextLogger(t *testing.T) {
	t.Parallel()

	var sawLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = LoggerFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	recorder := httptest.NewRecorder()
	RequestLogger(nil)(next).ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !sawLogger {
		t.Fatalf("expected a request-scoped logger in context")
	}
}
