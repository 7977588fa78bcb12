package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	m := New()
	m.RPCRequests.WithLabelValues("/payrecord.v1.GroupService/ListGroups", "ok").Inc()
	m.LedgerComputes.WithLabelValues("balances").Add(2)
	m.TransfersEmitted.Observe(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.True(t, strings.Contains(text, `payrecord_rpc_requests_total{code="ok",procedure="/payrecord.v1.GroupService/ListGroups"} 1`))
	assert.True(t, strings.Contains(text, `payrecord_ledger_computations_total{kind="balances"} 2`))
	assert.True(t, strings.Contains(text, "payrecord_ledger_transfers_emitted_count 1"))
	assert.True(t, strings.Contains(text, "go_goroutines"))
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.LedgerComputes.WithLabelValues("simplify").Inc()

	families, err := b.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.NotEqual(t, "payrecord_ledger_computations_total", f.GetName())
	}
}
