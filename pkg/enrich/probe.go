package enrich

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultProbeURL     = "http://www.gstatic.com/generate_204"
	DefaultProbeTimeout = 10 * time.Second
)

// HTTPProbe treats any HTTP response from URL, whatever the status, as proof of
// connectivity.
type HTTPProbe struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

func (p HTTPProbe) Reachable(ctx context.Context) error {
	url := p.URL
	if url == "" {
		url = DefaultProbeURL
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("probe: create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	resp.Body.Close()
	return nil
}
