package extract

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTranscriptURL is the YouTube timed-text endpoint.
const DefaultTranscriptURL = "https://video.google.com"

// TranscriptClient fetches YouTube video transcripts. Timing data is
// discarded; fragment texts are joined with single spaces.
type TranscriptClient struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// TranscriptOption configures a TranscriptClient.
type TranscriptOption func(*TranscriptClient)

// WithTranscriptBaseURL overrides the endpoint, used in tests.
func WithTranscriptBaseURL(u string) TranscriptOption {
	return func(c *TranscriptClient) { c.baseURL = u }
}

// WithTranscriptLanguage sets the caption language to request.
func WithTranscriptLanguage(lang string) TranscriptOption {
	return func(c *TranscriptClient) { c.language = lang }
}

func NewTranscriptClient(opts ...TranscriptOption) *TranscriptClient {
	c := &TranscriptClient{
		baseURL:  DefaultTranscriptURL,
		language: "en",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VideoID resolves a video reference to its identifier. Two shapes are
// accepted: a watch URL carrying the id in the "v" query parameter, or a
// bare path (youtu.be links, plain ids) whose final segment is the id.
func VideoID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty video reference")
	}

	if strings.Contains(ref, "youtube.com") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parse video url: %w", err)
		}
		id := u.Query().Get("v")
		if id == "" {
			return "", fmt.Errorf("no video id in url: %s", ref)
		}
		return id, nil
	}

	ref = strings.TrimSuffix(ref, "/")
	if i := strings.IndexAny(ref, "?&"); i >= 0 {
		ref = ref[:i]
	}
	segments := strings.Split(ref, "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", fmt.Errorf("no video id in reference: %s", ref)
	}
	return id, nil
}

type timedText struct {
	Fragments []timedFragment `xml:"text"`
}

type timedFragment struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Text     string  `xml:",chardata"`
}

// Fetch retrieves the transcript for a video id as plain text. Fails when
// the id is invalid or the video has no captions in the configured
// language.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	endpoint := fmt.Sprintf("%s/timedtext?lang=%s&v=%s", c.baseURL, url.QueryEscape(c.language), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch transcript: status %d for video %s", resp.StatusCode, videoID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("no captions available for video %s", videoID)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse transcript: %w", err)
	}
	if len(tt.Fragments) == 0 {
		return "", fmt.Errorf("no captions available for video %s", videoID)
	}

	parts := make([]string, 0, len(tt.Fragments))
	for _, f := range tt.Fragments {
		t := strings.TrimSpace(html.UnescapeString(f.Text))
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}
