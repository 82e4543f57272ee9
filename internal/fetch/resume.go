package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ErrNoResumeJSON is returned when a page contains no recognizable resume document.
var ErrNoResumeJSON = errors.New("no resume JSON found")

// embeddedSelectors are searched in order for a JSON document inside HTML.
var embeddedSelectors = []string{
	`script[type="application/json"]`,
	`script[type="application/ld+json"]`,
	"pre",
	"code",
}

// resumeKeys are the top-level keys that mark a JSON object as a resume.
var resumeKeys = []string{"basics", "skills", "work"}

// render is swapped out in tests.
var render = WithBrowser

// ResumeJSON fetches urlStr and returns the raw resume JSON it serves or embeds.
func ResumeJSON(ctx context.Context, urlStr string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.logger()

	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}

	if isJSON(result.ContentType, result.Body) {
		if !looksLikeResume(result.Body) {
			return nil, &Error{URL: urlStr, Message: "JSON document is not a resume", Cause: ErrNoResumeJSON}
		}
		return result.Body, nil
	}

	data, err := ExtractEmbeddedJSON(string(result.Body))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNoResumeJSON) {
		return nil, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	if !opts.UseBrowser {
		return nil, &Error{URL: urlStr, Message: "page has no embedded resume", Cause: ErrNoResumeJSON}
	}

	logger.Info("no embedded resume in served HTML, rendering with browser", zap.String("url", urlStr))
	html, err := render(ctx, urlStr, opts.timeout(), logger)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}

	data, err = ExtractEmbeddedJSON(html)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "rendered page has no embedded resume", Cause: err}
	}
	return data, nil
}

// ExtractEmbeddedJSON finds the first resume-shaped JSON object embedded in html.
func ExtractEmbeddedJSON(html string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	for _, selector := range embeddedSelectors {
		var found []byte
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := bytes.TrimSpace([]byte(s.Text()))
			if looksLikeResume(text) {
				found = text
				return false
			}
			return true
		})
		if found != nil {
			return found, nil
		}
	}

	return nil, ErrNoResumeJSON
}

func isJSON(contentType string, body []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			return true
		}
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func looksLikeResume(data []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return false
	}
	for _, key := range resumeKeys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}
