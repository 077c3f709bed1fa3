package editor

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"

	"github.com/ironsheep/face-anon/internal/faults"
	"github.com/ironsheep/face-anon/internal/imaging"
)

// Resolver turns either delivery form of a Result into a decoded image.
type Resolver struct {
	httpClient *http.Client
}

// NewResolver returns a Resolver that fetches references with client.
// A nil client uses a default client with the standard edit timeout.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Resolver{httpClient: client}
}

// Resolve decodes result. Inline payloads are decoded directly; references
// are fetched with an HTTP GET first. A failed fetch or non-2xx status is
// faults.ErrEditService; bytes that do not decode as an image, or a result
// of unknown kind, are faults.ErrResponseFormat.
func (r *Resolver) Resolve(ctx context.Context, result Result) (image.Image, error) {
	var data []byte
	switch result.Kind {
	case KindInline:
		data = result.Data
	case KindReference:
		fetched, err := r.fetch(ctx, result.URL)
		if err != nil {
			return nil, err
		}
		data = fetched
	default:
		return nil, faults.Wrap(faults.ErrResponseFormat, "resolve", fmt.Sprintf("unknown delivery %s", result.Kind), nil)
	}

	img, err := imaging.DecodeBytes(data)
	if err != nil {
		return nil, faults.Wrap(faults.ErrResponseFormat, "resolve", fmt.Sprintf("%s payload is not an image", result.Kind), err)
	}
	return img, nil
}

func (r *Resolver) fetch(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, faults.Wrap(faults.ErrResponseFormat, "resolve", fmt.Sprintf("invalid reference %q", ref), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, faults.Wrap(faults.ErrEditService, "resolve", "new request", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, faults.Wrap(faults.ErrEditService, "resolve", "fetch reference", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, faults.Wrap(faults.ErrEditService, "resolve", "read reference body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, faults.Wrap(faults.ErrEditService, "resolve", fmt.Sprintf("http %d fetching reference", resp.StatusCode), nil)
	}
	return body, nil
}
