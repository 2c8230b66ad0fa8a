// Package upstream implements the two read-only collaborators the analytics
// pipeline pulls its entity snapshots from. Both are consumed behind small
// interfaces and both degrade gracefully: any failure, timeout, or malformed
// payload yields an empty dataset — upstream trouble is logged and counted,
// never propagated as a request error.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/domain/deadline"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
)

// maxBodyBytes caps how much of an upstream response is read. Snapshots
// beyond this are treated as malformed.
const maxBodyBytes = 64 << 20

// DeadlineFetcher pulls a fresh snapshot of the deadline stream.
type DeadlineFetcher interface {
	// FetchDeadlines returns the raw payload, or an empty payload on any
	// failure.
	FetchDeadlines(ctx context.Context) deadline.RawPayload

	// Ping reports whether the upstream currently responds. Used only by the
	// readiness probe; regular fetches never depend on it.
	Ping(ctx context.Context) error
}

// DocumentFetcher pulls a fresh snapshot of the document stream.
type DocumentFetcher interface {
	// FetchDocuments returns the raw records, or an empty slice on any
	// failure. Both the {data:[...]} envelope and a bare list are accepted;
	// any other shape counts as malformed and yields an empty slice.
	FetchDocuments(ctx context.Context) []document.Raw

	Ping(ctx context.Context) error
}

// FailureObserver receives a callback whenever a fetch degrades to an empty
// dataset. The metrics collector satisfies it.
type FailureObserver interface {
	ObserveUpstreamFailure(upstream string)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstreamFailure(string) {}

// ─────────────────────────────────────────────────────────────────────────────
// HTTP implementations
// ─────────────────────────────────────────────────────────────────────────────

// HTTPDeadlineClient fetches the deadline stream over HTTP.
type HTTPDeadlineClient struct {
	url      string
	client   *http.Client
	logger   logging.Logger
	observer FailureObserver
}

// NewHTTPDeadlineClient builds a deadline fetcher for the given endpoint.
// timeout bounds each fetch; observer may be nil.
func NewHTTPDeadlineClient(url string, timeout time.Duration, logger logging.Logger, observer FailureObserver) *HTTPDeadlineClient {
	if observer == nil {
		observer = nopObserver{}
	}
	return &HTTPDeadlineClient{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("upstream.deadlines"),
		observer: observer,
	}
}

// FetchDeadlines implements DeadlineFetcher.
func (c *HTTPDeadlineClient) FetchDeadlines(ctx context.Context) deadline.RawPayload {
	body, err := get(ctx, c.client, c.url)
	if err != nil {
		c.degrade(err)
		return deadline.RawPayload{}
	}
	var payload deadline.RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.degrade(fmt.Errorf("malformed payload: %w", err))
		return deadline.RawPayload{}
	}
	return payload
}

// Ping implements DeadlineFetcher.
func (c *HTTPDeadlineClient) Ping(ctx context.Context) error {
	_, err := get(ctx, c.client, c.url)
	return err
}

func (c *HTTPDeadlineClient) degrade(err error) {
	c.logger.Warn("deadline fetch degraded to empty dataset", logging.Err(err))
	c.observer.ObserveUpstreamFailure("deadlines")
}

// HTTPDocumentClient fetches the document stream over HTTP.
type HTTPDocumentClient struct {
	url      string
	client   *http.Client
	logger   logging.Logger
	observer FailureObserver
}

// NewHTTPDocumentClient builds a document fetcher for the given endpoint.
func NewHTTPDocumentClient(url string, timeout time.Duration, logger logging.Logger, observer FailureObserver) *HTTPDocumentClient {
	if observer == nil {
		observer = nopObserver{}
	}
	return &HTTPDocumentClient{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.Named("upstream.documents"),
		observer: observer,
	}
}

// FetchDocuments implements DocumentFetcher.
func (c *HTTPDocumentClient) FetchDocuments(ctx context.Context) []document.Raw {
	body, err := get(ctx, c.client, c.url)
	if err != nil {
		c.degrade(err)
		return nil
	}
	docs, err := DecodeDocumentPayload(body)
	if err != nil {
		c.degrade(err)
		return nil
	}
	return docs
}

// Ping implements DocumentFetcher.
func (c *HTTPDocumentClient) Ping(ctx context.Context) error {
	_, err := get(ctx, c.client, c.url)
	return err
}

func (c *HTTPDocumentClient) degrade(err error) {
	c.logger.Warn("document fetch degraded to empty dataset", logging.Err(err))
	c.observer.ObserveUpstreamFailure("documents")
}

// DecodeDocumentPayload resolves the two accepted upstream shapes — a
// {data:[...]} envelope or a bare list — into a flat record slice. The shape
// is inspected exactly once here; downstream code never re-checks it. A null
// body decodes to an empty slice; any other shape is an error.
func DecodeDocumentPayload(body []byte) ([]document.Raw, error) {
	var probe interface{}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	switch probe.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		var docs []document.Raw
		if err := json.Unmarshal(body, &docs); err != nil {
			return nil, fmt.Errorf("malformed list payload: %w", err)
		}
		return docs, nil
	case map[string]interface{}:
		var envelope struct {
			Data []document.Raw `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("malformed envelope payload: %w", err)
		}
		return envelope.Data, nil
	default:
		return nil, fmt.Errorf("unexpected payload shape %T", probe)
	}
}

// get performs one bounded GET and returns the response body.
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}
