package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/payrecord/internal/config"
	"github.com/mmynk/payrecord/pkg/api"
	"github.com/mmynk/payrecord/pkg/api/apiconnect"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "payrecord.db")

	store, err := OpenStore(context.Background(), cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(cfg, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}

func TestEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, ts.URL)
	groupClient := apiconnect.NewGroupServiceClient(http.DefaultClient, ts.URL)
	expenseClient := apiconnect.NewExpenseServiceClient(http.DefaultClient, ts.URL)
	ledgerClient := apiconnect.NewLedgerServiceClient(http.DefaultClient, ts.URL)

	login, err := authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{Name: "Alice"}))
	require.NoError(t, err)
	bearer := "Bearer " + login.Msg.Token

	_, err = groupClient.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	createReq := connect.NewRequest(&api.CreateGroupRequest{Name: "Trip", Members: []string{"A", "B"}})
	createReq.Header().Set("Authorization", bearer)
	group, err := groupClient.CreateGroup(ctx, createReq)
	require.NoError(t, err)

	addReq := connect.NewRequest(&api.AddExpenseRequest{
		GroupID:     group.Msg.Group.ID,
		Description: "Hotel",
		Amount:      100,
		Date:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Payer:       "A",
		SplitLogic:  "EXACT",
		SplitDistribution: []api.SplitShare{
			{Member: "A", Value: 40},
			{Member: "B", Value: 60},
		},
	})
	addReq.Header().Set("Authorization", bearer)
	_, err = expenseClient.AddExpense(ctx, addReq)
	require.NoError(t, err)

	simplifyReq := connect.NewRequest(&api.SimplifyDebtsRequest{GroupID: group.Msg.Group.ID})
	simplifyReq.Header().Set("Authorization", bearer)
	plan, err := ledgerClient.SimplifyDebts(ctx, simplifyReq)
	require.NoError(t, err)
	require.Len(t, plan.Msg.Transfers, 1)
	assert.Equal(t, "B pays A $60.00", plan.Msg.Transfers[0].Formatted)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "payrecord_rpc_requests_total"))
	assert.True(t, strings.Contains(string(body), `payrecord_ledger_computations_total{kind="simplify"} 1`))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+apiconnect.GroupServiceListGroupsProcedure, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,authorization")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}
