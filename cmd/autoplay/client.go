package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/mcp-training/gridgolf/game/engine"
	"github.com/wricardo/mcp-training/gridgolf/game/service"
)

// Client talks to the REST API for one session at a time
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(ctx context.Context, course string, rules engine.RuleSet) (*service.SessionInfo, error) {
	req := map[string]string{"course_id": course, "rules": string(rules)}
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return &info, nil
}

func (c *Client) Roll(ctx context.Context) (*service.RollInfo, error) {
	var info service.RollInfo
	if err := c.do(ctx, http.MethodPost, c.sessionPath("roll"), nil, &info); err != nil {
		return nil, fmt.Errorf("roll: %w", err)
	}
	return &info, nil
}

func (c *Client) Shoot(ctx context.Context, decision engine.Decision) (*service.ShotResult, error) {
	req := map[string]string{"direction": string(decision.Direction), "club": string(decision.Club)}
	var result service.ShotResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("shot"), req, &result); err != nil {
		return nil, fmt.Errorf("shoot: %w", err)
	}
	return &result, nil
}

func (c *Client) DeleteSession(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(c.sessionID), nil, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	c.sessionID = ""
	return nil
}

func (c *Client) sessionPath(action string) string {
	return fmt.Sprintf("/api/sessions/%s/%s", url.PathEscape(c.sessionID), action)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, string(data))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
