package editor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/face-anon/internal/faults"
	"github.com/ironsheep/face-anon/internal/logging"
)

const (
	defaultHTTPTimeout = 120 * time.Second
	defaultBaseURL     = "https://api.openai.com/v1/images/edits"
	defaultModel       = "gpt-image-1-mini"
	maxResponseBytes   = 64 << 20
)

// Config captures the runtime settings required to talk to the edit service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Request is one edit call. Image and Mask are PNG-encoded Size×Size
// canvases; transparent mask pixels mark the area the service may repaint.
type Request struct {
	Image  []byte
	Mask   []byte
	Prompt string
	Size   int
}

// Client wraps the images/edits endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The same client is used
// to fetch reference results.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs an edit client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	client.logger = logging.OrDiscard(client.logger).With("component", "editor")
	return client
}

type editResponse struct {
	Data  []editDatum `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type editDatum struct {
	B64JSON string `json:"b64_json"`
	URL     string `json:"url"`
}

// Edit submits one edit request and returns the service's delivery of the
// edited image. It does not decode the image; see Resolve.
func (c *Client) Edit(ctx context.Context, req Request) (Result, error) {
	if c.cfg.APIKey == "" {
		return Result{}, faults.Wrap(faults.ErrConfig, "edit", "api key required", nil)
	}
	if len(req.Image) == 0 || len(req.Mask) == 0 {
		return Result{}, faults.Wrap(faults.ErrInvalidImage, "edit", "image and mask payloads required", nil)
	}
	if req.Size <= 0 {
		return Result{}, faults.Wrap(faults.ErrInvalidImage, "edit", fmt.Sprintf("invalid canvas size %d", req.Size), nil)
	}

	body, contentType, err := c.encodeForm(req)
	if err != nil {
		return Result{}, faults.Wrap(faults.ErrEditService, "edit", "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, body)
	if err != nil {
		return Result{}, faults.Wrap(faults.ErrEditService, "edit", "new request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", contentType)

	c.logger.Debug("submitting edit",
		"model", c.cfg.Model,
		"size", req.Size,
		"image_bytes", len(req.Image),
		"mask_bytes", len(req.Mask),
	)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, faults.Wrap(faults.ErrEditService, "edit", fmt.Sprintf("http error (timeout=%s)", c.httpClient.Timeout), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, faults.Wrap(faults.ErrEditService, "edit", "read body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, faults.Wrap(faults.ErrEditService, "edit",
			fmt.Sprintf("http %d: %s", resp.StatusCode, snippet(raw)), nil)
	}

	result, err := parseEditResponse(raw)
	if err != nil {
		return Result{}, err
	}
	c.logger.Debug("edit complete", "delivery", result.Kind.String(), "elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}

func (c *Client) encodeForm(req Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"model", c.cfg.Model},
		{"prompt", req.Prompt},
		{"n", "1"},
		{"size", strconv.Itoa(req.Size) + "x" + strconv.Itoa(req.Size)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := writePNGPart(w, "image", "image.png", req.Image); err != nil {
		return nil, "", err
	}
	if err := writePNGPart(w, "mask", "mask.png", req.Mask); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writePNGPart(w *multipart.Writer, field, filename string, data []byte) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

// parseEditResponse maps the JSON body to a Result. The body must carry
// exactly one image, delivered either inline or by reference.
func parseEditResponse(raw []byte) (Result, error) {
	var parsed editResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, faults.Wrap(faults.ErrResponseFormat, "edit", "decode response: "+snippet(raw), err)
	}
	if parsed.Error != nil && strings.TrimSpace(parsed.Error.Message) != "" {
		return Result{}, faults.Wrap(faults.ErrEditService, "edit", "api error: "+strings.TrimSpace(parsed.Error.Message), nil)
	}
	if len(parsed.Data) != 1 {
		return Result{}, faults.Wrap(faults.ErrResponseFormat, "edit", fmt.Sprintf("expected one image, got %d", len(parsed.Data)), nil)
	}

	datum := parsed.Data[0]
	switch {
	case strings.TrimSpace(datum.B64JSON) != "":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(datum.B64JSON))
		if err != nil {
			return Result{}, faults.Wrap(faults.ErrResponseFormat, "edit", "invalid base64 payload", err)
		}
		return Inline(data), nil
	case strings.TrimSpace(datum.URL) != "":
		return Reference(strings.TrimSpace(datum.URL)), nil
	default:
		return Result{}, faults.Wrap(faults.ErrResponseFormat, "edit", "image carries neither b64_json nor url", nil)
	}
}

// Resolve decodes a Result using the client's HTTP client for references.
func (c *Client) Resolve(ctx context.Context, result Result) (image.Image, error) {
	return NewResolver(c.httpClient).Resolve(ctx, result)
}

func snippet(raw []byte) string {
	clean := strings.Join(strings.Fields(string(raw)), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
