package correction

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NtripSource fetches an RTCM3 stream from an NTRIP caster over HTTP and
// feeds it into an Injector. It never parses RTCM content itself — that is
// the Injector's job — it only owns the HTTP connection lifecycle.
type NtripSource struct {
	URL        string
	Username   string
	Password   string
	Mountpoint string

	httpClient *http.Client
}

// NewNtripSource builds a source pointed at a caster URL and mountpoint.
func NewNtripSource(url, username, password, mountpoint string) *NtripSource {
	return &NtripSource{
		URL:        url,
		Username:   username,
		Password:   password,
		Mountpoint: mountpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Stream connects to the caster and copies the response body into inj in
// fixed-size chunks until ctx is cancelled or the connection drops. It
// returns the terminating error (nil only if ctx was cancelled cleanly).
func (s *NtripSource) Stream(ctx context.Context, inj *Injector) error {
	fullURL := s.URL
	if s.Mountpoint != "" && !strings.Contains(fullURL, s.Mountpoint) {
		if !strings.HasSuffix(fullURL, "/") {
			fullURL += "/"
		}
		fullURL += s.Mountpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("correction: build request: %w", err)
	}
	req.Header.Set("User-Agent", "NTRIP gnss-core/client")
	req.Header.Set("Ntrip-Version", "Ntrip/2.0")
	if s.Username != "" {
		req.SetBasicAuth(s.Username, s.Password)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("correction: connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("correction: caster returned status %d", resp.StatusCode)
	}

	buf := make([]byte, 1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			inj.Write(buf[:n])
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("correction: stream read: %w", err)
		}
	}
}
