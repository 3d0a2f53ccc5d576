package registry

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"sync"
	"testing"

	perrors "github.com/matzehuels/plugfetch/pkg/errors"
	"github.com/matzehuels/plugfetch/pkg/httputil"
)

type transportCall struct {
	url     string
	headers map[string]string
}

// fakeTransport serves a fixed metadata body and a fixed download path.
type fakeTransport struct {
	mu sync.Mutex

	body    string
	jsonErr error

	file        string
	downloadErr error

	gets      []transportCall
	downloads []transportCall
}

func (f *fakeTransport) GetJSON(_ context.Context, rawURL string, headers map[string]string, v any) error {
	f.mu.Lock()
	f.gets = append(f.gets, transportCall{rawURL, maps.Clone(headers)})
	f.mu.Unlock()

	if f.jsonErr != nil {
		return f.jsonErr
	}
	if f.body == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.body), v)
}

func (f *fakeTransport) DownloadFile(_ context.Context, rawURL string, headers map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, transportCall{rawURL, maps.Clone(headers)})
	return f.file, f.downloadErr
}

const demoMetadata = `{
	"name": "demo",
	"dist-tags": {"latest": "1.1.0", "beta": "2.0.0-beta.2"},
	"versions": {
		"1.0.0": {"name": "demo", "version": "1.0.0", "dist": {"tarball": "https://registry.example/demo/-/demo-1.0.0.tgz"}},
		"1.1.0": {"name": "demo", "version": "1.1.0", "dist": {"tarball": "https://registry.example/demo/-/demo-1.1.0.tgz"}},
		"1.3.2": {"name": "demo", "version": "1.3.2", "dist": {"tarball": "https://registry.example/demo/-/demo-1.3.2.tgz"}},
		"2.0.0-beta.2": {"name": "demo", "version": "2.0.0-beta.2", "dist": {"tarball": "https://registry.example/demo/-/demo-2.0.0-beta.2.tgz"}}
	}
}`

func TestClientGet(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		want      PackageInfo
	}{
		{"latest", "", PackageInfo{"demo", "1.1.0", "https://registry.example/demo/-/demo-1.1.0.tgz"}},
		{"tag", "beta", PackageInfo{"demo", "2.0.0-beta.2", "https://registry.example/demo/-/demo-2.0.0-beta.2.tgz"}},
		{"exact", "1.0.0", PackageInfo{"demo", "1.0.0", "https://registry.example/demo/-/demo-1.0.0.tgz"}},
		{"range", "^1.0.0", PackageInfo{"demo", "1.3.2", "https://registry.example/demo/-/demo-1.3.2.tgz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("https://registry.example", Config{}, WithTransport(&fakeTransport{body: demoMetadata}))

			got, err := c.Get(context.Background(), "demo", tt.requested)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if *got != tt.want {
				t.Errorf("Get() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestClientGetURL(t *testing.T) {
	tests := []struct {
		name     string
		registry string
		scopes   map[string]Scope
		pkg      string
		want     string
	}{
		{"unscoped", "https://registry.example", nil, "demo", "https://registry.example/demo"},
		{"trailing slash", "https://registry.example/", nil, "demo", "https://registry.example/demo"},
		{"scoped name encoded", "https://registry.example", nil, "@org/demo", "https://registry.example/@org%2Fdemo"},
		{"only first slash encoded", "https://registry.example", nil, "@a/b/c", "https://registry.example/@a%2Fb/c"},
		{
			"scope registry",
			"https://registry.example",
			map[string]Scope{"@org": {Registry: "https://npm.org.example/api"}},
			"@org/demo",
			"https://npm.org.example/api/@org%2Fdemo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{body: demoMetadata}
			c := New(tt.registry, Config{Scopes: tt.scopes}, WithTransport(ft))

			if _, err := c.Get(context.Background(), tt.pkg, ""); err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if len(ft.gets) != 1 {
				t.Fatalf("GetJSON called %d times, want 1", len(ft.gets))
			}
			if ft.gets[0].url != tt.want {
				t.Errorf("url = %q, want %q", ft.gets[0].url, tt.want)
			}
		})
	}
}

func TestClientGetHeaders(t *testing.T) {
	ft := &fakeTransport{body: demoMetadata}
	c := New("https://registry.example", Config{
		Auth:      TokenAuth{Token: "default-token"},
		UserAgent: "my-host/2.0",
		Scopes: map[string]Scope{
			"@org": {Registry: "https://npm.org.example", Auth: TokenAuth{Token: "org-key", Header: "X-Api-Key"}},
		},
	}, WithTransport(ft))

	ctx := context.Background()
	if _, err := c.Get(ctx, "demo", ""); err != nil {
		t.Fatalf("Get(demo) error: %v", err)
	}
	if _, err := c.Get(ctx, "@org/demo", ""); err != nil {
		t.Fatalf("Get(@org/demo) error: %v", err)
	}

	def, scoped := ft.gets[0].headers, ft.gets[1].headers
	for _, h := range []map[string]string{def, scoped} {
		if h["accept-encoding"] != "gzip" {
			t.Errorf("accept-encoding = %q", h["accept-encoding"])
		}
		if h["accept"] != acceptHeader {
			t.Errorf("accept = %q", h["accept"])
		}
		if h["user-agent"] != "my-host/2.0" {
			t.Errorf("user-agent = %q", h["user-agent"])
		}
	}

	if def["Authorization"] != "Bearer default-token" {
		t.Errorf("default Authorization = %q", def["Authorization"])
	}
	if _, ok := scoped["Authorization"]; ok {
		t.Error("scoped request should not carry the default credential")
	}
	if scoped["X-Api-Key"] != "org-key" {
		t.Errorf("scoped X-Api-Key = %q", scoped["X-Api-Key"])
	}
}

func TestClientDefaultUserAgent(t *testing.T) {
	ft := &fakeTransport{body: demoMetadata}
	c := New(DefaultRegistry, Config{}, WithTransport(ft))

	if _, err := c.Get(context.Background(), "demo", ""); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got := ft.gets[0].headers["user-agent"]; got != DefaultUserAgent {
		t.Errorf("user-agent = %q, want %q", got, DefaultUserAgent)
	}
	if _, ok := ft.gets[0].headers["Authorization"]; ok {
		t.Error("anonymous request should not carry Authorization")
	}
}

func TestClientGetErrors(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		pkg     string
		ft      *fakeTransport
		code    perrors.Code
		message string
	}{
		{
			name:    "empty body",
			pkg:     "demo",
			ft:      &fakeTransport{},
			code:    perrors.ErrCodeEmptyResponse,
			message: "Failed to get package 'demo' Response is empty",
		},
		{
			name:    "null body",
			pkg:     "demo",
			ft:      &fakeTransport{body: "null"},
			code:    perrors.ErrCodeEmptyResponse,
			message: "Failed to get package 'demo' Response is empty",
		},
		{
			name:    "missing name",
			pkg:     "demo",
			ft:      &fakeTransport{body: `{"versions": {"1.0.0": {"name": "demo", "version": "1.0.0"}}}`},
			code:    perrors.ErrCodeInvalidMetadata,
			message: "Failed to get package 'demo' Invalid json format",
		},
		{
			name:    "missing versions",
			pkg:     "demo",
			ft:      &fakeTransport{body: `{"name": "demo"}`},
			code:    perrors.ErrCodeInvalidMetadata,
			message: "Failed to get package 'demo' Invalid json format",
		},
		{
			name:    "empty versions",
			pkg:     "demo",
			ft:      &fakeTransport{body: `{"name": "demo", "versions": {}}`},
			code:    perrors.ErrCodeInvalidMetadata,
			message: "Failed to get package 'demo' Invalid json format",
		},
		{
			name:    "transport failure",
			pkg:     "demo",
			ft:      &fakeTransport{jsonErr: cause},
			code:    perrors.ErrCodeTransport,
			message: "Failed to get package 'demo': connection refused",
		},
		{
			name: "malformed json",
			pkg:  "demo",
			ft:   &fakeTransport{body: `{"name": `},
			code: perrors.ErrCodeTransport,
		},
		{
			name:    "version not found",
			pkg:     "demo",
			ft:      &fakeTransport{body: demoMetadata},
			code:    perrors.ErrCodeVersionNotFound,
			message: "Version '9.0.0' not found for package 'demo'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("https://registry.example", Config{}, WithTransport(tt.ft))

			requested := ""
			if tt.code == perrors.ErrCodeVersionNotFound {
				requested = "9.0.0"
			}
			_, err := c.Get(context.Background(), tt.pkg, requested)
			if !perrors.Is(err, tt.code) {
				t.Fatalf("Get() error = %v, want code %s", err, tt.code)
			}
			if tt.message != "" && perrors.UserMessage(err) != tt.message {
				t.Errorf("message = %q, want %q", perrors.UserMessage(err), tt.message)
			}
		})
	}
}

func TestClientGetPreservesCause(t *testing.T) {
	ft := &fakeTransport{jsonErr: &httputil.StatusError{StatusCode: 404}}
	c := New("https://registry.example", Config{}, WithTransport(ft))

	_, err := c.Get(context.Background(), "missing", "")
	if !errors.Is(err, httputil.ErrNotFound) {
		t.Errorf("Get() error = %v, want wrapped ErrNotFound", err)
	}
	var statusErr *httputil.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 404 {
		t.Errorf("Get() error = %v, want *StatusError 404", err)
	}
}

func TestClientGetInvalidName(t *testing.T) {
	ft := &fakeTransport{body: demoMetadata}
	c := New("https://registry.example", Config{}, WithTransport(ft))

	for _, name := range []string{"", "../evil", "@org/../../etc", "a\\b"} {
		_, err := c.Get(context.Background(), name, "")
		if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
			t.Errorf("Get(%q) error = %v, want INVALID_INPUT", name, err)
		}
	}
	if len(ft.gets) != 0 {
		t.Errorf("invalid names reached the transport %d times", len(ft.gets))
	}
}

func TestClientScope(t *testing.T) {
	c := New("https://registry.example", Config{
		Scopes: map[string]Scope{"@org": {Registry: "https://npm.org.example"}},
	})

	if got := c.Scope("@org/demo").Registry; got != "https://npm.org.example" {
		t.Errorf("Scope(@org/demo) = %q", got)
	}
	if got := c.Scope("demo").Registry; got != "https://registry.example" {
		t.Errorf("Scope(demo) = %q", got)
	}
}

func TestClientConcurrentGet(t *testing.T) {
	c := New("https://registry.example", Config{}, WithTransport(&fakeTransport{body: demoMetadata}))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := c.Get(context.Background(), "demo", "^1.0.0")
			if err == nil && info.Version != "1.3.2" {
				err = errors.New("unexpected version " + info.Version)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}
