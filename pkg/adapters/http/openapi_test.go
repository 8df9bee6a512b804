package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/burette"
	"github.com/aretw0/burette/pkg/adapters/memory"
)

func TestEmbeddedSpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(loader.Context))

	assert.Equal(t, "Burette API", doc.Info.Title)
}

// TestSpecCoversRouter walks the chi routes and checks each one appears
// in the embedded document, so the spec cannot silently drift from the
// handlers.
func TestSpecCoversRouter(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	require.NoError(t, err)

	specPaths := doc.Paths.Map()

	bench := burette.NewBench(memory.NewStore())
	srv := NewServer(bench)

	// Documentation endpoints describe the spec, not the API.
	undocumented := map[string]bool{
		"/openapi.yaml": true,
		"/swagger":      true,
	}

	var routes []string
	seen := map[string]bool{}
	walker := func(method, route string, handler http.Handler, mw ...func(http.Handler) http.Handler) error {
		// chi reports subrouter roots with a trailing slash.
		if len(route) > 1 && strings.HasSuffix(route, "/") {
			route = strings.TrimSuffix(route, "/")
		}
		if !seen[route] {
			seen[route] = true
			routes = append(routes, route)
		}
		return nil
	}
	require.NoError(t, chi.Walk(srv.routes(), walker))
	require.NotEmpty(t, routes)

	for _, route := range routes {
		if undocumented[route] {
			continue
		}
		assert.Contains(t, specPaths, route, "route %s missing from openapi.yaml", route)
	}
}

func TestSwaggerEndpointsServeDocs(t *testing.T) {
	bench := burette.NewBench(memory.NewStore())
	srv := httptest.NewServer(NewServer(bench).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/yaml", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/swagger")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
