package holdings

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jhagglund/navpulse/internal/httputil"
	"github.com/jhagglund/navpulse/internal/models"
)

// RemoteCSVSource downloads the provider's holdings CSV endpoint. The
// payload carries a short preamble above the header row, which the shared
// CSV parser skips.
type RemoteCSVSource struct {
	url        string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewRemoteCSVSource(url string, timeout time.Duration) *RemoteCSVSource {
	return &RemoteCSVSource{
		url:        url,
		httpClient: httputil.NewClient(timeout),
		retry: httputil.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

func (s *RemoteCSVSource) Label() string { return "url" }

func (s *RemoteCSVSource) Load(ctx context.Context) ([]models.Holding, error) {
	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		return httputil.NewRequest(ctx, s.url)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrSourceUnavailable, s.url, resp.StatusCode)
	}

	hs, err := parseCSVTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return hs, nil
}
