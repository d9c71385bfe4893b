package station

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// ErrTransport marks network-level failures reaching the station.
	ErrTransport = errors.New("station unreachable")
	// ErrUpstream marks non-success statuses and malformed bodies.
	ErrUpstream = errors.New("station returned unusable data")
)

// Fetcher is the single operation the cache consumes from HTTP.
type Fetcher interface {
	FetchObservations(ctx context.Context) (ObservationSet, error)
}

// Client fetches the raw observation payload from the weather station.
type Client struct {
	url        string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	log        *logrus.Entry
}

func NewClient(httpClient *http.Client, url string, logger *logrus.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherstation",
		MaxRequests: 3,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
	})

	return &Client{
		url:        url,
		httpClient: httpClient,
		circuit:    cb,
		log:        logger.WithField("component", "station"),
	}
}

// stationError is the JSON body the station sends alongside error-ish
// status codes.
type stationError struct {
	Message       string `json:"message"`
	MessageSource string `json:"messagesource"`
}

// FetchObservations performs one GET against the station URL. A response
// counts as usable only if the status is below 400, the content type is
// JSON and the body decodes into a non-empty observation set.
func (c *Client) FetchObservations(ctx context.Context) (ObservationSet, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
		}

		if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
			return nil, fmt.Errorf("%w: status %d with content type %q",
				ErrUpstream, resp.StatusCode, resp.Header.Get("Content-Type"))
		}

		if resp.StatusCode >= 400 {
			// Error-ish codes carry a JSON body telling who produced
			// the error; attribute it so the logs do.
			var stErr stationError
			source := "unknown"
			msg := ""
			if jsonErr := json.Unmarshal(body, &stErr); jsonErr == nil {
				msg = stErr.Message
				if stErr.MessageSource != "" {
					source = stErr.MessageSource
				}
			}
			return nil, fmt.Errorf("%w: status %d from %s: %s",
				ErrUpstream, resp.StatusCode, source, msg)
		}

		var set ObservationSet
		if err := json.Unmarshal(body, &set); err != nil {
			return nil, fmt.Errorf("%w: decoding payload: %v", ErrUpstream, err)
		}
		if len(set) == 0 {
			return nil, fmt.Errorf("%w: empty observation set", ErrUpstream)
		}

		return set, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: circuit breaker: %v", ErrTransport, err)
		}
		switch {
		case errors.Is(err, ErrUpstream):
			c.log.Warnf("upstream error: %v", err)
		default:
			c.log.Warnf("transport error: %v", err)
		}
		return nil, err
	}

	set, ok := result.(ObservationSet)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", ErrUpstream)
	}

	c.log.Debugf("fetched %d observations from %s", len(set), c.url)
	return set, nil
}
