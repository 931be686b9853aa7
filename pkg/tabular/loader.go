package tabular

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Loader fetches the raw bytes backing a Source and wraps them in a Document.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOption customises the default loader.
type LoaderOption func(*loader)

// WithFileSystem supplies the fs.FS consulted for SourceKindFS sources.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(l *loader) {
		l.fs = fsys
	}
}

// WithHTTPClient supplies the client used for SourceKindURL sources. Passing a
// client implicitly enables HTTP loading.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *loader) {
		l.http = client
	}
}

// WithHTTPTimeout bounds each remote fetch. Zero disables the bound.
func WithHTTPTimeout(timeout time.Duration) LoaderOption {
	return func(l *loader) {
		l.timeout = timeout
	}
}

// WithHTTP toggles URL loading with a default client.
func WithHTTP(allow bool) LoaderOption {
	return func(l *loader) {
		l.allowHTTP = allow
	}
}

type loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// NewLoader constructs the default Loader handling file, fs.FS, and URL
// sources. URL loading is disabled unless enabled via options.
func NewLoader(options ...LoaderOption) Loader {
	l := &loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.http != nil {
		clone := *l.http
		if l.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = l.timeout
		}
		l.http = &clone
		l.allowHTTP = true
	} else if l.allowHTTP {
		l.http = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("tabular: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case SourceKindURL:
		if !l.allowHTTP {
			return Document{}, errors.New("tabular: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("tabular: unsupported source kind")
	}
	if err != nil {
		return Document{}, err
	}

	return NewDocument(src, data)
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("tabular: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("tabular: fs path is required")
	}
	if files == nil {
		return nil, errors.New("tabular: fs is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		return nil, errors.New("tabular: http client is not configured")
	}
	if url == "" {
		return nil, errors.New("tabular: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("tabular: unexpected status " + resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return data, nil
}
