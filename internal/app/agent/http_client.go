package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"fieldsync/internal/app/agent/config"
	"fieldsync/internal/domain/emergency"
	"fieldsync/internal/domain/intervention"
	"fieldsync/internal/domain/pending"
)

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func newHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		log:       log.With("component", "http_client"),
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "FieldSync-Agent/1.0",
	}
}

// HealthCheck doubles as the connectivity probe: a fast 200 from the health
// endpoint means the device is online.
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil
}

func (h *httpClient) FetchInterventions(ctx context.Context) ([]intervention.Intervention, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/interventions", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Interventions []intervention.Intervention `json:"interventions"`
	}
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Interventions, nil
}

func (h *httpClient) FetchStock(ctx context.Context) ([]intervention.StockItem, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/stock", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Items []intervention.StockItem `json:"items"`
	}
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// AddTimeSpent performs the add-timespent remote operation.
func (h *httpClient) AddTimeSpent(ctx context.Context, interventionID int64, p pending.HourPayload) error {
	path := fmt.Sprintf("/api/v1/interventions/%d/timespent", interventionID)
	resp, err := h.doRequest(ctx, http.MethodPost, path, p)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

// AddInterventionLine performs the add-intervention-line remote operation.
func (h *httpClient) AddInterventionLine(ctx context.Context, interventionID int64, p pending.MaterialPayload) error {
	path := fmt.Sprintf("/api/v1/interventions/%d/lines", interventionID)
	resp, err := h.doRequest(ctx, http.MethodPost, path, p)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

// UpdateTask performs the update-task remote operation.
func (h *httpClient) UpdateTask(ctx context.Context, interventionID int64, p pending.TaskPayload) error {
	path := fmt.Sprintf("/api/v1/interventions/%d/tasks/%d", interventionID, p.TaskID)
	resp, err := h.doRequest(ctx, http.MethodPut, path, p)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

// UploadPhoto performs the upload-photo remote operation.
func (h *httpClient) UploadPhoto(ctx context.Context, interventionID int64, p pending.PhotoPayload) error {
	path := fmt.Sprintf("/api/v1/interventions/%d/photos", interventionID)
	resp, err := h.doRequest(ctx, http.MethodPost, path, p)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

// SaveSignature performs the save-signature remote operation.
func (h *httpClient) SaveSignature(ctx context.Context, interventionID int64, p pending.SignaturePayload) error {
	path := fmt.Sprintf("/api/v1/interventions/%d/signature", interventionID)
	resp, err := h.doRequest(ctx, http.MethodPost, path, p)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

// UpdateIntervention performs the update-intervention remote operation
// (currently only the private note field).
func (h *httpClient) UpdateIntervention(ctx context.Context, interventionID int64, p pending.NotePayload) error {
	path := fmt.Sprintf("/api/v1/interventions/%d", interventionID)
	resp, err := h.doRequest(ctx, http.MethodPatch, path, p)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) ListOpenEmergencies(ctx context.Context) ([]emergency.Emergency, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/emergencies?status=open", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Emergencies []emergency.Emergency `json:"emergencies"`
	}
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Emergencies, nil
}

// ClaimEmergency invokes the atomic server-side claim procedure. The race is
// decided entirely on the server; a non-2xx or transport error means "try
// again later", never a win.
func (h *httpClient) ClaimEmergency(ctx context.Context, emergencyID int64, userID, userName string) (*emergency.ClaimResult, error) {
	body := struct {
		UserID   string `json:"user_id"`
		UserName string `json:"user_name"`
	}{UserID: userID, UserName: userName}

	path := fmt.Sprintf("/api/v1/emergencies/%d/claim", emergencyID)
	resp, err := h.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var result emergency.ClaimResult
	if err := h.parseResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
			Title  string `json:"title"`
		}
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Detail != "" {
			return fmt.Errorf("server error %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return fmt.Errorf("server error %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	return nil
}
