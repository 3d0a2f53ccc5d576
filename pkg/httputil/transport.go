package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/plugfetch/pkg/observability"
)

const (
	jsonTimeout    = 10 * time.Second
	tempFilePrefix = "plugfetch-"
	tempFileSuffix = ".tgz"
)

var (
	// ErrNotFound is returned when the registry answers 404.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for connection failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
)

// StatusError reports a non-2xx HTTP response.
// It unwraps to [ErrNotFound] for 404 and to [ErrNetwork] otherwise.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Response error %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrNetwork
}

// Transport performs registry HTTP requests: JSON metadata fetches and
// tarball downloads into temporary files. It holds no per-request state and
// is safe for concurrent use.
type Transport struct {
	json     *http.Client
	download *http.Client
	hooks    observability.HTTPHooks
	tempDir  string
}

// TransportOption configures a [Transport].
type TransportOption func(*Transport)

// WithHTTPClient uses c for both metadata and download requests.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *Transport) {
		t.json = c
		t.download = c
	}
}

// WithHooks sets the hooks notified about every request.
func WithHooks(h observability.HTTPHooks) TransportOption {
	return func(t *Transport) {
		if h != nil {
			t.hooks = h
		}
	}
}

// WithTempDir sets the directory downloaded archives are written to.
// The default is [os.TempDir].
func WithTempDir(dir string) TransportOption {
	return func(t *Transport) {
		t.tempDir = dir
	}
}

// NewTransport creates a Transport. Metadata requests time out after 10
// seconds; downloads are bounded only by the request context, since tarball
// size is unknown up front.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		json:     &http.Client{Timeout: jsonTimeout},
		download: &http.Client{},
		hooks:    observability.NoopHTTPHooks{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetJSON performs a GET request and JSON-decodes the response into v.
// A gzip Content-Encoding is decoded here because callers that set
// accept-encoding themselves disable Go's transparent decompression.
// An empty body leaves v untouched and returns nil.
func (t *Transport) GetJSON(ctx context.Context, rawURL string, headers map[string]string, v any) error {
	resp, err := t.do(ctx, t.json, rawURL, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := decodedBody(resp)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

// DownloadFile streams the response body of a GET request into a new,
// uniquely named file and returns its path. The caller owns the file.
// On failure any partially written file is removed.
func (t *Transport) DownloadFile(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	resp, err := t.do(ctx, t.download, rawURL, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := decodedBody(resp)
	if err != nil {
		return "", err
	}
	defer body.Close()

	dir := t.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, tempFilePrefix+uuid.NewString()+tempFileSuffix)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%w: download %s: %w", ErrNetwork, rawURL, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}

func (t *Transport) do(ctx context.Context, client *http.Client, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	t.hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		t.hooks.OnError(ctx, req.Method, host, path, err)
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	t.hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &StatusError{StatusCode: code}
}

// decodedBody returns the response body with any gzip Content-Encoding
// removed. The returned reader must be closed; it does not close resp.Body.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.NopCloser(resp.Body), nil
	}
	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip response: %w", ErrNetwork, err)
	}
	return gz, nil
}

func hostPath(u *url.URL) (string, string) {
	return u.Host, u.EscapedPath()
}
