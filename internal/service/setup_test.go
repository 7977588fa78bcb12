package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/payrecord/internal/auth"
	"github.com/mmynk/payrecord/internal/calculator"
	"github.com/mmynk/payrecord/internal/metrics"
	"github.com/mmynk/payrecord/internal/middleware"
	"github.com/mmynk/payrecord/internal/storage/sqlite"
	"github.com/mmynk/payrecord/pkg/api"
	"github.com/mmynk/payrecord/pkg/api/apiconnect"
)

const testSecret = "test-secret"

// testClients bundles a client for every service.
type testClients struct {
	Auth    apiconnect.AuthServiceClient
	Group   apiconnect.GroupServiceClient
	Expense apiconnect.ExpenseServiceClient
	Ledger  apiconnect.LedgerServiceClient
	Metrics *metrics.Metrics
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testAuthInterceptor returns a Connect interceptor that sets a test user in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(middleware.WithUserName(ctx, "Alice"), req)
		}
	}
}

// setupTestServer creates a test server over a temporary SQLite database.
// When realAuth is false every request runs as "Alice".
func setupTestServer(t *testing.T, realAuth bool) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := discardLogger()
	m := metrics.New()
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)

	authInterceptor := testAuthInterceptor()
	if realAuth {
		authInterceptor = middleware.RequireAuth(jwtManager, apiconnect.AuthServiceLoginProcedure)
	}
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		authInterceptor,
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewNameAuthenticator(), jwtManager, logger), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, logger), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, logger), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(
		NewLedgerService(store, calculator.New(), m, logger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		Auth:    apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		Group:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		Expense: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		Ledger:  apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		Metrics: m,
	}
}

func createTestGroup(t *testing.T, c *testClients, members ...string) *api.Group {
	t.Helper()
	resp, err := c.Group.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Test Group",
		Members: members,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func addTestExpense(t *testing.T, c *testClients, req *api.AddExpenseRequest) *api.Expense {
	t.Helper()
	if req.Date.IsZero() {
		req.Date = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	}
	if req.Description == "" {
		req.Description = "Dinner"
	}
	resp, err := c.Expense.AddExpense(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func equalSplit(members ...string) []api.SplitShare {
	shares := make([]api.SplitShare, len(members))
	for i, m := range members {
		shares[i] = api.SplitShare{Member: m, Value: 1}
	}
	return shares
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
