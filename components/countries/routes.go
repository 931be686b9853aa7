package countries

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal registration surface the component needs. *http.ServeMux
// and chi routers both satisfy it, so the lookup endpoint mounts on either.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath reports where the country-lookup route would land under basePath,
// letting callers build correction-UI endpoint URLs without registering
// anything.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers the country-lookup handler under basePath on mux
// and returns the mounted pattern.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions is the pre-built Options variant of
// RegisterRoutes. Callers are expected to pass an Options value produced by
// NewOptions (or equivalent) so defaults and clamps apply.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("countries: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	pattern := mountPath(basePath, opts.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}

// mountPath joins basePath and routePath into a clean absolute pattern,
// tolerating missing or doubled slashes on either side.
func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
