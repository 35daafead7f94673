package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhandler "gatehouse/internal/auth/handler"
	"gatehouse/internal/auth/jwt"
	authservice "gatehouse/internal/auth/service"
	authstore "gatehouse/internal/auth/store"
	"gatehouse/internal/auth/store/revocation"
	employeehandler "gatehouse/internal/employee/handler"
	employeemodels "gatehouse/internal/employee/models"
	employeeservice "gatehouse/internal/employee/service"
	employeestore "gatehouse/internal/employee/store"
	"gatehouse/internal/platform/logger"
	visithandler "gatehouse/internal/visit/handler"
	visitservice "gatehouse/internal/visit/service"
	visitstore "gatehouse/internal/visit/store"
	visitorstore "gatehouse/internal/visitor/store"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, id.EmployeeID) {
	t.Helper()
	ctx := context.Background()

	users := authstore.NewInMemory()
	if err := authservice.SeedUsers(ctx, users, authservice.DefaultSeedAccounts, "scaffold-pass"); err != nil {
		t.Fatalf("seeding users: %v", err)
	}
	employees := employeestore.NewInMemory()
	host := &employeemodels.Employee{
		ID: id.NewEmployeeID(), FullName: "Dana Fisher", Email: "dana@company.com",
		Active: true, CreatedAt: time.Now(),
	}
	if err := employees.Upsert(ctx, host); err != nil {
		t.Fatalf("seeding employee: %v", err)
	}

	log := logger.New()
	tokens := jwt.NewService("scaffold-signing-key", time.Hour)
	auth := authservice.New(users, tokens, revocation.NewInMemory(), log)
	visits := visitservice.New(visitstore.NewInMemory(), visitorstore.NewInMemory(), employees, nil, log)

	router := NewRouter(Deps{
		Logger:    log,
		Validator: auth,
		Auth:      authhandler.New(auth, log),
		Visits:    visithandler.New(visits, log),
		Employees: employeehandler.New(employeeservice.New(employees), log),
	})
	return router, host.ID
}

func login(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": "scaffold-pass"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected login 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp.Token
}

func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "the assembled router", func(t *testing.T) {
		router, hostID := newTestRouter(t)

		testutil.When(t, "probing the operational endpoints", func(t *testing.T) {
			for _, path := range []string{"/healthz", "/metrics"} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)
				if rec.Code != http.StatusOK {
					t.Fatalf("expected %s to return 200, got %d", path, rec.Code)
				}
			}
		})

		testutil.When(t, "registering a visit without a token", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/visits", bytes.NewReader(visitBody(hostID)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			testutil.Then(t, "the request is rejected as unauthenticated", func(t *testing.T) {
				if rec.Code != http.StatusUnauthorized {
					t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
				}
			})
		})

		testutil.When(t, "logging in as reception and registering a visit", func(t *testing.T) {
			token := login(t, router, "reception@company.com")

			req := httptest.NewRequest(http.MethodPost, "/visits", bytes.NewReader(visitBody(hostID)))
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			testutil.Then(t, "the visit lands in pending_approval", func(t *testing.T) {
				if rec.Code != http.StatusCreated {
					t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
				}
				var resp struct {
					Visit struct {
						Status string `json:"status"`
					} `json:"visit"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if resp.Visit.Status != "pending_approval" {
					t.Fatalf("expected pending_approval, got %s", resp.Visit.Status)
				}
			})
		})

		testutil.When(t, "using a token after logout", func(t *testing.T) {
			token := login(t, router, "cso@company.com")

			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected logout 204, got %d", rec.Code)
			}

			req = httptest.NewRequest(http.MethodGet, "/visits/pending", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			testutil.Then(t, "the revoked token no longer resolves an actor", func(t *testing.T) {
				if rec.Code != http.StatusUnauthorized {
					t.Fatalf("expected 401, got %d", rec.Code)
				}
			})
		})
	})
}

func visitBody(hostID id.EmployeeID) []byte {
	body, _ := json.Marshal(map[string]any{
		"visitor": map[string]string{
			"full_name": "Asha Rao",
			"phone":     "555-0100",
			"id_type":   "passport",
			"id_number": "P1234567",
		},
		"employee_id": hostID.String(),
		"purpose":     "quarterly vendor review",
	})
	return body
}
