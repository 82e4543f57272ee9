package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const resumeDoc = `{"basics": {"name": "Ada"}, "skills": [{"name": "Go"}]}`

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"X-Test": "yes"}
	result, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, string(result.Body), "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_UnsupportedScheme(t *testing.T) {
	_, err := URL(context.Background(), "ftp://example.com/resume.json", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.MaxBodyBytes = 4
	result, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(result.Body))
}

func TestResumeJSON_JSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(resumeDoc))
	}))
	defer server.Close()

	data, err := ResumeJSON(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.JSONEq(t, resumeDoc, string(data))
}

func TestResumeJSON_JSONNotResume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	_, err := ResumeJSON(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResumeJSON))
}

func TestResumeJSON_EmbeddedInHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>
			<script type="application/json">{"config": true}</script>
			<pre>` + resumeDoc + `</pre>
		</body></html>`))
	}))
	defer server.Close()

	data, err := ResumeJSON(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.JSONEq(t, resumeDoc, string(data))
}

func TestResumeJSON_NoResumeWithoutBrowser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	}))
	defer server.Close()

	_, err := ResumeJSON(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResumeJSON))
}

func TestResumeJSON_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	}))
	defer server.Close()

	original := render
	defer func() { render = original }()
	var renderedURL string
	render = func(_ context.Context, url string, _ time.Duration, _ *zap.Logger) (string, error) {
		renderedURL = url
		return `<html><body><script type="application/ld+json">` + resumeDoc + `</script></body></html>`, nil
	}

	opts := DefaultOptions()
	opts.UseBrowser = true
	data, err := ResumeJSON(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, server.URL, renderedURL)
	assert.JSONEq(t, resumeDoc, string(data))
}

func TestExtractEmbeddedJSON(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		wantErr bool
	}{
		{"json script", `<script type="application/json">` + resumeDoc + `</script>`, false},
		{"ld+json script", `<script type="application/ld+json">` + resumeDoc + `</script>`, false},
		{"code block", `<code>` + resumeDoc + `</code>`, false},
		{"non resume json", `<pre>{"name": "Ada"}</pre>`, true},
		{"array json", `<pre>[1, 2, 3]</pre>`, true},
		{"no json", `<p>Hello</p>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ExtractEmbeddedJSON("<html><body>" + tt.html + "</body></html>")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoResumeJSON)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, resumeDoc, string(data))
		})
	}
}
