package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
)

func TestHealthProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCentralClient(srv.URL)
	assert.NoError(t, c.Health(context.Background()))

	c = NewCentralClient("http://127.0.0.1:1")
	assert.Error(t, c.Health(context.Background()))
}

func TestHeartbeatSendsTerminalID(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pdv/heartbeat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCentralClient(srv.URL)
	require.NoError(t, c.Heartbeat(context.Background(), "PDV007"))
	assert.Equal(t, "PDV007", got["pdvId"])
}

func TestFetchCatalogUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pdv/carga-inicial", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"produtos":[{"id":1,"codigo":"A1","descricao":"Café","precoVenda":1290,"unidade":"UN","estoque":10}],"usuarios":[]}}`))
	}))
	defer srv.Close()

	c := NewCentralClient(srv.URL)
	catalog, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Produtos, 1)
	assert.Equal(t, "Café", catalog.Produtos[0].Descricao)
	assert.Equal(t, int64(1290), catalog.Produtos[0].PrecoVenda)
}

func TestSyncBatchRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewCentralClient(srv.URL)
	err := c.SyncBatch(context.Background(), dto.SyncBatchRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSyncBatchExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewCentralClient(srv.URL)
	err := c.SyncBatch(context.Background(), dto.SyncBatchRequest{})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindTransport))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSyncBatchHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCentralClient(srv.URL)
	err := c.SyncBatch(ctx, dto.SyncBatchRequest{})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindTransport))
}
