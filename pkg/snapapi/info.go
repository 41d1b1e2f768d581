package snapapi

import (
	"context"
	"net/http"
)

// Ping checks that the API is reachable and the key is accepted.
func (c *Client) Ping(ctx context.Context) (*PingResult, error) {
	var out PingResult
	if err := c.doJSON(ctx, http.MethodGet, "/v1/ping", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDevices lists the device presets the service supports.
func (c *Client) GetDevices(ctx context.Context) (*DevicesResult, error) {
	var out DevicesResult
	if err := c.doJSON(ctx, http.MethodGet, "/v1/devices", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCapabilities returns the service capability document.
func (c *Client) GetCapabilities(ctx context.Context) (*CapabilitiesResult, error) {
	var out CapabilitiesResult
	if err := c.doJSON(ctx, http.MethodGet, "/v1/capabilities", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUsage reports request quota for the current billing period.
func (c *Client) GetUsage(ctx context.Context) (*UsageResult, error) {
	var out UsageResult
	if err := c.doJSON(ctx, http.MethodGet, "/v1/usage", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
