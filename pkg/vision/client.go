// Package vision recognizes brand labels in respondent-supplied images
// using the Anthropic vision API.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const (
	defaultModel     = "claude-haiku-4-5-20251001"
	defaultMaxTokens = 1024
	// maxImages caps how many images go into one request.
	maxImages = 4
	// maxImageBytes rejects oversized downloads before base64 encoding.
	maxImageBytes = 5 << 20
)

// Detection is the parsed recognition result for one image set.
type Detection struct {
	// Label is the dominant brand label across the images, empty if none.
	Label string `json:"label"`
	// LabelCounts maps each detected label to its occurrence count.
	LabelCounts map[string]int `json:"label_counts"`
	// Tier is the model's qualitative confidence: high, medium or low.
	Tier string `json:"tier"`
}

// Client calls the vision model. Construct with New.
type Client struct {
	sdk       sdk.Client
	http      *http.Client
	model     string
	maxTokens int64
}

// Option configures the client.
type Option func(*Client)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithMaxTokens overrides the response token budget.
func WithMaxTokens(n int64) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithHTTPClient overrides the http.Client used for image downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a vision client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		sdk:       sdk.NewClient(option.WithAPIKey(apiKey)),
		http:      &http.Client{Timeout: 30 * time.Second},
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const detectPrompt = `You are verifying a survey respondent's brand answer against their uploaded photos.
Candidate answer: %q

Examine every image. Report, as JSON only with no other text:
{"label": "<dominant brand label you can identify, or empty string>",
 "label_counts": {"<label>": <number of images it appears in>},
 "tier": "<high|medium|low>"}

tier is high when branding is clearly legible and matches across images, medium when
partially visible or inferred, low when barely supported.`

// Detect downloads up to four images and asks the model which brand they
// show, relative to the candidate answer.
func (c *Client) Detect(ctx context.Context, imageURLs []string, candidate string) (*Detection, error) {
	if len(imageURLs) == 0 {
		return nil, eris.New("vision: no images supplied")
	}
	if len(imageURLs) > maxImages {
		imageURLs = imageURLs[:maxImages]
	}

	blocks := make([]sdk.ContentBlockParamUnion, 0, len(imageURLs)+1)
	for _, u := range imageURLs {
		mediaType, data, err := c.fetchImage(ctx, u)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, sdk.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data)))
	}
	blocks = append(blocks, sdk.NewTextBlock(fmt.Sprintf(detectPrompt, candidate)))

	msg, err := c.sdk.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(blocks...)},
	})
	if err != nil {
		return nil, eris.Wrap(err, "vision: create message")
	}

	return parseDetection(messageText(msg))
}

func (c *Client) fetchImage(ctx context.Context, url string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, eris.Wrapf(err, "vision: build request %s", url)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, eris.Wrapf(err, "vision: fetch image %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, eris.Errorf("vision: fetch image %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", nil, eris.Wrapf(err, "vision: read image %s", url)
	}
	if len(data) > maxImageBytes {
		return "", nil, eris.Errorf("vision: image %s exceeds %d bytes", url, maxImageBytes)
	}

	mediaType := resp.Header.Get("Content-Type")
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(mediaType)
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = http.DetectContentType(data)
	}
	return mediaType, data, nil
}

func messageText(msg *sdk.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// parseDetection extracts the JSON payload, tolerating markdown code fences
// around it.
func parseDetection(text string) (*Detection, error) {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			text = text[i : j+1]
		}
	}

	var d Detection
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return nil, eris.Wrap(err, "vision: malformed model response")
	}
	switch d.Tier {
	case "high", "medium", "low":
	default:
		return nil, eris.Errorf("vision: unknown confidence tier %q", d.Tier)
	}
	return &d, nil
}
