package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

var UnsupportedSourceError = errors.New("Unsupported source for this query")

// UpstreamError is a non-2xx answer from an upstream API
type UpstreamError struct {
	Source     string
	StatusCode int
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d for %s", e.Source, e.StatusCode, e.URL)
}

// Retryable is true for rate limiting and server side failures
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type Requester struct {
	Name       string
	HTTPClient *http.Client
	UserAgent  string
	MaxRetries uint64

	// Authorise is applied to every outgoing request
	Authorise func(req *http.Request)
}

func (r *Requester) client() *http.Client {
	if r.HTTPClient == nil {
		return http.DefaultClient
	}

	return r.HTTPClient
}

// GetJSON performs a GET against url and decodes the JSON body into T. Network errors, 429 and
// 5xx answers are retried with exponential backoff until MaxRetries or the context gives up.
func GetJSON[T any](ctx context.Context, r *Requester, url string) (T, error) {
	var result T

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = 200 * time.Millisecond
	retryBackoff.MaxInterval = 2 * time.Second

	attempt := 0
	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if r.UserAgent != "" {
			req.Header.Set("User-Agent", r.UserAgent)
		}
		if r.Authorise != nil {
			r.Authorise(req)
		}

		resp, err := r.client().Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)

			upstreamErr := &UpstreamError{Source: r.Name, StatusCode: resp.StatusCode, URL: url}
			if upstreamErr.Retryable() {
				return upstreamErr
			}
			return backoff.Permanent(upstreamErr)
		}

		var decoded T
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding %s response: %w", r.Name, err))
		}

		result = decoded
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("source", r.Name).Int("attempt", attempt).Str("wait", wait.String()).Msg("Retrying upstream request")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(retryBackoff, r.MaxRetries), ctx), notify)

	return result, err
}

// DecodeRecords unmarshals each raw record on its own. Records that fail to decode are
// logged and skipped so one bad entry does not lose the rest of the batch.
func DecodeRecords[T any](sourceName string, kind string, records []json.RawMessage) []T {
	decoded := make([]T, 0, len(records))

	for i, record := range records {
		var value T
		if err := json.Unmarshal(record, &value); err != nil {
			log.Warn().Err(err).Str("source", sourceName).Str("kind", kind).Int("index", i).Msg("Skipping malformed record")
			continue
		}

		decoded = append(decoded, value)
	}

	return decoded
}
