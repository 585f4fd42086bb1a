// Package cli contains the HTTP client used by the operator CLI to talk to a
// running automation service.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bizmate/automation/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

type ruleListResponse struct {
	Rules []models.Rule `json:"rules"`
	Total int           `json:"total"`
}

// GetRules retrieves all rules registered with the service.
func (c *Client) GetRules(activeOnly bool) ([]models.Rule, error) {
	path := "/api/v1/rules"
	if activeOnly {
		path += "?active=true"
	}

	resp, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get rules: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result ruleListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Rules, nil
}

// GetRule retrieves one rule by ID.
func (c *Client) GetRule(id string) (*models.Rule, error) {
	resp, err := c.doRequest("GET", "/api/v1/rules/"+id, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get rule: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.Rule
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// CreateRule registers a new rule with the service.
func (c *Client) CreateRule(rule *models.Rule) (*models.Rule, error) {
	resp, err := c.doRequest("POST", "/api/v1/rules", rule)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to create rule: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.Rule
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// DeleteRule removes a rule by ID.
func (c *Client) DeleteRule(id string) error {
	resp, err := c.doRequest("DELETE", "/api/v1/rules/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete rule: %s (status: %d)", string(body), resp.StatusCode)
	}

	return nil
}

// TriggerEvent fires a domain event at the service.
func (c *Client) TriggerEvent(req *models.TriggerEventRequest) error {
	resp, err := c.doRequest("POST", "/api/v1/events", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to trigger event: %s (status: %d)", string(body), resp.StatusCode)
	}

	return nil
}

// GetStats retrieves the engine statistics snapshot.
func (c *Client) GetStats() (*models.EngineStats, error) {
	resp, err := c.doRequest("GET", "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get stats: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result models.EngineStats
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
