package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Raj-Kharwar-26/upi-app/internal/domain"
	"github.com/Raj-Kharwar-26/upi-app/internal/handler"
	"github.com/Raj-Kharwar-26/upi-app/internal/repository"
	"github.com/Raj-Kharwar-26/upi-app/internal/router"
	"github.com/Raj-Kharwar-26/upi-app/internal/scheduler"
	"github.com/Raj-Kharwar-26/upi-app/internal/usecase"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := repository.NewMemoryStore()
	logger := zap.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	sched := scheduler.New(store, store.Jobs(), logger, scheduler.Options{
		ProcessingDelay: 10 * time.Millisecond,
		TerminalDelay:   20 * time.Millisecond,
		PollInterval:    time.Millisecond,
	})
	sched.Start(ctx)
	t.Cleanup(cancel)

	uc := usecase.NewTransactionUsecase(store, sched, logger)
	h := handler.NewTransactionHandler(uc, logger)

	srv := httptest.NewServer(router.SetupRoutes(h, logger))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return body
}

func TestEndToEndFlow(t *testing.T) {
	srv := newTestServer(t)

	// Create.
	resp, body := postJSON(t, srv.URL+"/api/transactions",
		`{"payeeVpa":"bob@upi","payeeName":"Bob","amount":250}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	tx := body["transaction"].(map[string]any)
	require.Equal(t, "created", tx["status"])
	require.Equal(t, "bob@upi", tx["payeeVpa"])
	require.EqualValues(t, 250, tx["amount"])
	id := tx["id"].(string)
	require.NotEmpty(t, id)

	// Confirm via IVR.
	resp, body = postJSON(t, srv.URL+"/api/transactions/"+id+"/confirm", `{"mode":"ivr"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tx = body["transaction"].(map[string]any)
	require.Equal(t, "confirmed", tx["status"])
	require.Equal(t, "ivr", tx["mode"])

	instruction := body["instruction"].(map[string]any)
	require.Equal(t, "ivr", instruction["type"])
	steps := instruction["steps"].([]any)
	require.Len(t, steps, 7)
	require.Contains(t, steps[4], "250")

	// Immediate re-confirm is rejected.
	resp, body = postJSON(t, srv.URL+"/api/transactions/"+id+"/confirm", `{"mode":"ivr"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Transaction already processed", body["error"])

	// The scheduler advances the transaction to a terminal state.
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/transactions/" + id + "/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var proj domain.StatusProjection
		if err := json.NewDecoder(resp.Body).Decode(&proj); err != nil {
			return false
		}
		return proj.Status.IsTerminal()
	}, 2*time.Second, 5*time.Millisecond)

	// And the full record reflects it.
	resp, body = getJSON(t, srv.URL+"/api/transactions/"+id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tx = body["transaction"].(map[string]any)
	require.Contains(t, []string{"success", "pending", "failed"}, tx["status"])
	require.Equal(t, "ivr", tx["mode"])
}

func TestCreateRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing vpa", `{"payeeName":"Bob","amount":250}`},
		{"missing name", `{"payeeVpa":"bob@upi","amount":250}`},
		{"zero amount", `{"payeeVpa":"bob@upi","payeeName":"Bob","amount":0}`},
		{"negative amount", `{"payeeVpa":"bob@upi","payeeName":"Bob","amount":-10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, srv.URL+"/api/transactions", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.NotEmpty(t, body["error"])
		})
	}
}

func TestConfirmErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/transactions/nope/confirm", `{"mode":"ivr"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := postJSON(t, srv.URL+"/api/transactions",
		`{"payeeVpa":"bob@upi","payeeName":"Bob","amount":10}`)
	id := body["transaction"].(map[string]any)["id"].(string)

	resp, body = postJSON(t, srv.URL+"/api/transactions/"+id+"/confirm", `{"mode":"card"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["error"], "mode")
}

func TestGetAndStatusNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getJSON(t, srv.URL+"/api/transactions/nope")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Transaction not found", body["error"])

	resp, _ = getJSON(t, srv.URL+"/api/transactions/nope/status")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListEndpoint(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 7; i++ {
		resp, _ := postJSON(t, srv.URL+"/api/transactions",
			fmt.Sprintf(`{"payeeVpa":"p%d@upi","payeeName":"Payee %d","amount":5}`, i, i))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := getJSON(t, srv.URL+"/api/transactions?limit=3&offset=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 7, body["total"])
	require.EqualValues(t, 3, body["limit"])
	require.Len(t, body["transactions"].([]any), 3)

	// Newest first.
	first := body["transactions"].([]any)[0].(map[string]any)
	require.Equal(t, "p6@upi", first["payeeVpa"])

	// Nothing failed yet.
	resp, body = getJSON(t, srv.URL+"/api/transactions?status=failed")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 0, body["total"])
	require.Empty(t, body["transactions"])

	// Bad query values.
	resp, _ = getJSON(t, srv.URL+"/api/transactions?limit=abc")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = getJSON(t, srv.URL+"/api/transactions?status=bogus")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
