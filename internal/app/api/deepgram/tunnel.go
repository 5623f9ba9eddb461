package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "audio-pipeline/internal/app/errors"
)

// TunnelDiscoverer asks the local tunnel agent (ngrok-compatible API) for its public URL.
type TunnelDiscoverer struct {
	apiURL string
	client *http.Client
}

type tunnelList struct {
	Tunnels []struct {
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
	} `json:"tunnels"`
}

// NewTunnelDiscoverer creates a discoverer for the agent API at apiURL, e.g. http://127.0.0.1:4040.
func NewTunnelDiscoverer(apiURL string) *TunnelDiscoverer {
	return &TunnelDiscoverer{
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// PublicURL returns the first https tunnel. Any failure is reported as backend_unavailable.
func (d *TunnelDiscoverer) PublicURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiURL+"/api/tunnels", nil)
	if err != nil {
		return "", apperrors.WithKind(apperrors.KindBackendUnavailable, err, "invalid tunnel API URL %q", d.apiURL)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", apperrors.WithKind(apperrors.KindBackendUnavailable, err, "tunnel API unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.WithKind(apperrors.KindBackendUnavailable, apperrors.ErrNoTunnel,
			"tunnel API returned HTTP %d", resp.StatusCode)
	}

	var list tunnelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", apperrors.WithKind(apperrors.KindBackendUnavailable, err, "malformed tunnel API response")
	}

	for _, t := range list.Tunnels {
		if t.Proto == "https" || strings.HasPrefix(t.PublicURL, "https://") {
			return strings.TrimRight(t.PublicURL, "/"), nil
		}
	}
	return "", fmt.Errorf("%w at %s", apperrors.ErrNoTunnel, d.apiURL)
}
