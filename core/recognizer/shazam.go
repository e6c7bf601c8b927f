package recognizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"SetRadar/logger"
)

// ShazamClient queries a Shazam-compatible tagging endpoint with the raw
// segment audio. One instance is shared by all workers; transports are built
// per proxy endpoint and reused.
type ShazamClient struct {
	apiURL  string
	timeout time.Duration

	clients clientPool
}

// NewShazamClient creates the primary recognition client.
func NewShazamClient(apiURL string, timeout time.Duration) *ShazamClient {
	return &ShazamClient{
		apiURL:  apiURL,
		timeout: timeout,
	}
}

func (c *ShazamClient) Name() string { return "shazam" }

// shazamResponse mirrors the subset of the tagging response the aggregator
// needs: the match list and the track identity block.
type shazamResponse struct {
	Matches []struct {
		Score float64 `json:"score"`
	} `json:"matches"`
	Track struct {
		Key      string `json:"key"`
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	} `json:"track"`
}

// Recognize posts one segment's audio and parses the identification. A nil
// proxy means a direct connection.
func (c *ShazamClient) Recognize(ctx context.Context, audio []byte, proxy *url.URL) (*Match, error) {
	payload, err := json.Marshal(map[string]string{
		"samples": base64.StdEncoding.EncodeToString(audio),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode audio payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.clients.get(proxy, c.timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusProxyAuthRequired:
		return nil, fmt.Errorf("%w (endpoint %s)", ErrProxyAuth, proxyLabel(proxy))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: service returned HTTP %d", ErrTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("recognition service returned HTTP %d", resp.StatusCode)
	}

	var parsed shazamResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: bad response body: %v", ErrTransient, err)
	}

	if len(parsed.Matches) == 0 || parsed.Track.Key == "" {
		return nil, nil
	}

	confidence := 1.0
	if s := parsed.Matches[0].Score; s > 0 {
		confidence = s / 100
	}
	if confidence > 1 {
		confidence = 1
	}

	logger.Debug("shazam match",
		logger.String("trackId", parsed.Track.Key),
		logger.String("title", parsed.Track.Title),
		logger.Float64("confidence", confidence))

	return &Match{
		TrackID:    parsed.Track.Key,
		Title:      parsed.Track.Title,
		Artist:     parsed.Track.Subtitle,
		Confidence: confidence,
		RawLabel:   parsed.Track.Subtitle + " - " + parsed.Track.Title,
	}, nil
}

func proxyLabel(proxy *url.URL) string {
	if proxy == nil {
		return "direct"
	}
	return proxy.Host
}
