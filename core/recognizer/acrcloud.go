package recognizer

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"SetRadar/logger"
)

// ACRCloudClient is the fallback recognizer, used for segments the primary
// service cannot identify. Requests are signed with HMAC-SHA1 per the
// identify-protocol contract.
type ACRCloudClient struct {
	accessKey    string
	accessSecret []byte
	endpoint     string
	timeout      time.Duration

	clients clientPool
}

// NewACRCloudClient creates a fallback client for the given host and
// credentials.
func NewACRCloudClient(accessKey, accessSecret, host string, timeout time.Duration) *ACRCloudClient {
	return &ACRCloudClient{
		accessKey:    accessKey,
		accessSecret: []byte(accessSecret),
		endpoint:     fmt.Sprintf("https://%s/v1/identify", host),
		timeout:      timeout,
	}
}

func (c *ACRCloudClient) Name() string { return "acrcloud" }

func (c *ACRCloudClient) sign(stringToSign string) string {
	mac := hmac.New(sha1.New, c.accessSecret)
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// acrResponse mirrors the identify response. Status code 0 is a hit, 1001 is
// a clean no-result.
type acrResponse struct {
	Status struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	} `json:"status"`
	Metadata struct {
		Music []struct {
			ACRID   string  `json:"acrid"`
			Title   string  `json:"title"`
			Score   float64 `json:"score"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"music"`
	} `json:"metadata"`
}

// Recognize uploads one segment's audio as a signed multipart form.
func (c *ACRCloudClient) Recognize(ctx context.Context, audio []byte, proxy *url.URL) (*Match, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	stringToSign := "POST\n/v1/identify\n" + c.accessKey + "\naudio\n1\n" + timestamp
	signature := c.sign(stringToSign)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := map[string]string{
		"access_key":        c.accessKey,
		"sample_bytes":      strconv.Itoa(len(audio)),
		"timestamp":         timestamp,
		"signature":         signature,
		"data_type":         "audio",
		"signature_version": "1",
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	part, err := form.CreateFormFile("sample", "sample.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to write audio sample: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build identify request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

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
		return nil, fmt.Errorf("identify service returned HTTP %d", resp.StatusCode)
	}

	var parsed acrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: bad response body: %v", ErrTransient, err)
	}

	if parsed.Status.Code != 0 || len(parsed.Metadata.Music) == 0 {
		// 1001 means no result; anything else is logged but still resolves
		// to no-match for the segment.
		if parsed.Status.Code != 0 && parsed.Status.Code != 1001 {
			logger.Debug("acrcloud non-zero status",
				logger.Int("code", parsed.Status.Code),
				logger.String("msg", parsed.Status.Msg))
		}
		return nil, nil
	}

	hit := parsed.Metadata.Music[0]
	artist := ""
	if len(hit.Artists) > 0 {
		artist = hit.Artists[0].Name
	}
	return &Match{
		TrackID:    hit.ACRID,
		Title:      hit.Title,
		Artist:     artist,
		Confidence: hit.Score / 100,
		RawLabel:   artist + " - " + hit.Title,
	}, nil
}
