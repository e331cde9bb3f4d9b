package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// LinkProber checks whether an attachment URL is reachable.
type LinkProber interface {
	Probe(ctx context.Context, link string) error
}

// headLinkProber issues a HEAD request with a 5-second timeout. A timeout,
// network error or non-2xx status all count as unreachable.
type headLinkProber struct {
	httpClient *http.Client
}

func NewLinkProber() LinkProber {
	return &headLinkProber{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (p *headLinkProber) Probe(ctx context.Context, link string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("link is not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("link returned status %d", resp.StatusCode)
	}
	return nil
}
