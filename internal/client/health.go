package client

import (
	"context"
	"net/http"
)

// HealthCheck reports whether the API answers its health route.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, "health", request{method: http.MethodGet, path: "/utils/health-check/"}, nil)
}
