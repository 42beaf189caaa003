package ingest

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/futig/realty-advisor/internal/entity"
	pkgRetry "github.com/futig/realty-advisor/internal/pkg/retry"
	pkghttp "github.com/futig/realty-advisor/pkg/http"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// FetchFailure records a source URL that was skipped.
type FetchFailure struct {
	URL string
	Err error
}

// WebLoader fetches the configured source pages and turns them into
// plain-text Documents.
type WebLoader struct {
	connector *pkghttp.Connector
	urls      []string
	retry     pkgRetry.RetryConfig
}

func NewWebLoader(connector *pkghttp.Connector, urls []string, retry pkgRetry.RetryConfig) *WebLoader {
	return &WebLoader{
		connector: connector,
		urls:      append([]string(nil), urls...),
		retry:     retry,
	}
}

// Load fetches every URL in order. A URL that cannot be fetched is logged
// and reported in the failures slice; the remaining URLs are still loaded.
func (l *WebLoader) Load(ctx context.Context) ([]entity.Document, []FetchFailure) {
	docs := make([]entity.Document, 0, len(l.urls))
	var failures []FetchFailure

	for _, u := range l.urls {
		if ctx.Err() != nil {
			err := fmt.Errorf("%w: %w", entity.ErrFetch, ctx.Err())
			ctxzap.Warn(ctx, "skipping source url, context done", zap.String("url", u), zap.Error(err))
			failures = append(failures, FetchFailure{URL: u, Err: err})
			continue
		}

		doc, err := l.Fetch(ctx, u)
		if err != nil {
			ctxzap.Warn(ctx, "skipping source url", zap.String("url", u), zap.Error(err))
			failures = append(failures, FetchFailure{URL: u, Err: err})
			continue
		}

		ctxzap.Info(ctx, "source url loaded",
			zap.String("url", u),
			zap.Int("text_length", len(doc.Content)),
		)
		docs = append(docs, doc)
	}

	return docs, failures
}

// Fetch downloads one page. Network errors, 429 and 5xx responses are
// retried; any other failure returns immediately. Every returned error
// wraps entity.ErrFetch.
func (l *WebLoader) Fetch(ctx context.Context, url string) (entity.Document, error) {
	var raw *pkghttp.RawResponse

	err := pkgRetry.Do(ctx, l.retry, func() error {
		resp, err := l.connector.DoRaw(ctx, http.MethodGet, "",
			pkghttp.WithURL(url),
			pkghttp.WithHeader("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9"),
		)
		if err != nil {
			var httpErr *pkghttp.HTTPError
			if errors.As(err, &httpErr) && !httpErr.Temporary() {
				return pkgRetry.Unrecoverable(err)
			}
			return err
		}
		raw = resp
		return nil
	}, func(n uint, err error) {
		ctxzap.Debug(ctx, "retrying source url",
			zap.String("url", url),
			zap.Uint("attempt", n+1),
			zap.Error(err),
		)
	})
	if err != nil {
		return entity.Document{}, fmt.Errorf("%w: %s: %w", entity.ErrFetch, url, err)
	}

	text, err := extractText(raw)
	if err != nil {
		return entity.Document{}, fmt.Errorf("%w: %s: %w", entity.ErrFetch, url, err)
	}

	return entity.Document{
		ID:      DocumentID(url),
		URL:     url,
		Content: text,
	}, nil
}

// DocumentID is stable for a URL across restarts.
func DocumentID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

func extractText(raw *pkghttp.RawResponse) (string, error) {
	contentType := raw.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(raw.Body)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("parse content type %q: %w", contentType, err)
	}

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return htmlToText(raw.Body), nil
	case strings.HasPrefix(mediaType, "text/"):
		return strings.TrimSpace(string(raw.Body)), nil
	default:
		return "", fmt.Errorf("non-text response: %s", mediaType)
	}
}
