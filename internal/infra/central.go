package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"

	"github.com/rs/zerolog/log"
)

const (
	dataTimeout  = 30 * time.Second
	probeTimeout = 5 * time.Second

	maxAttempts = 3
	retryDelay  = 1 * time.Second
)

// envelope is the central API's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// CentralClient talks to the central API. Catalog and batch calls retry
// with exponential backoff before surfacing a TransportError; probe
// calls never retry and never return transport details.
type CentralClient struct {
	baseURL     string
	dataClient  *http.Client
	probeClient *http.Client
}

func NewCentralClient(baseURL string) *CentralClient {
	return &CentralClient{
		baseURL:     baseURL,
		dataClient:  &http.Client{Timeout: dataTimeout},
		probeClient: &http.Client{Timeout: probeTimeout},
	}
}

// Health probes GET /health. Any non-2xx or transport failure means
// offline.
func (c *CentralClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("central: health returned %d", resp.StatusCode)
	}
	return nil
}

// Heartbeat announces this terminal to the central API. Best effort.
func (c *CentralClient) Heartbeat(ctx context.Context, pdvID string) error {
	body, _ := json.Marshal(map[string]string{"pdvId": pdvID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/pdv/heartbeat", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.probeClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// FetchCatalog pulls the initial product/operator load.
func (c *CentralClient) FetchCatalog(ctx context.Context) (*dto.CatalogData, error) {
	var catalog dto.CatalogData
	err := c.withRetry(ctx, "fetch catalog", func() error {
		return c.doJSON(ctx, http.MethodGet, "/api/pdv/carga-inicial", nil, &catalog)
	})
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}

// SyncBatch pushes pending sales and cash movements in one request. The
// payload is retried verbatim, which the central API treats as
// idempotent.
func (c *CentralClient) SyncBatch(ctx context.Context, batch dto.SyncBatchRequest) error {
	return c.withRetry(ctx, "sync batch", func() error {
		return c.doJSON(ctx, http.MethodPost, "/api/pdv/sincronizar", batch, nil)
	})
}

func (c *CentralClient) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("central: marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("central: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.dataClient.Do(req)
	if err != nil {
		return fmt.Errorf("central: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("central: %s returned %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("central: decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("central: %s rejected the request", path)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("central: decode data: %w", err)
		}
	}
	return nil
}

// withRetry runs fn up to maxAttempts times, doubling the delay between
// attempts, and wraps the final failure as a TransportError.
func (c *CentralClient) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	delay := retryDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Err(lastErr).
			Msg("central API call failed")

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return apierror.Transport(op+" cancelled", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return apierror.Transport(op+" failed after retries", lastErr)
}
