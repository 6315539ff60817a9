package inference

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/logger"
	"admissionAdvisor/pkg/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// errCallerGone marks a call abandoned by its caller; the breaker does not count it.
var errCallerGone = errors.New("caller gave up")

type GradioConfig struct {
	BaseURL string
	APIName string
	Token   string

	// upper bound for one Ask, submit and result stream together
	Timeout time.Duration

	RatePerSec float64
	Burst      int

	// consecutive failures that open the breaker
	BreakerTrips    uint32
	BreakerCooldown time.Duration
}

// GradioClient asks a question of a Gradio-hosted chat app over its REST
// queue API: submit the call, then read the result event stream.
type GradioClient struct {
	cfg        GradioConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[string]
}

func NewGradioClient(cfg GradioConfig) *GradioClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.APIName == "" {
		cfg.APIName = "chat"
	}
	cfg.APIName = strings.TrimPrefix(cfg.APIName, "/")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BreakerTrips == 0 {
		cfg.BreakerTrips = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &GradioClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "inference",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerTrips
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.InferenceCircuitState.Set(float64(to))
			logger.Warn("inference_circuit_state_changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return c
}

// Ask returns the generated answer. Every failure wraps domain.ErrInferenceUnavailable.
func (c *GradioClient) Ask(callerCtx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(callerCtx, c.cfg.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.InferenceFailures.WithLabelValues("rate_limited").Inc()
		return "", fmt.Errorf("%w: rate limited: %w", domain.ErrInferenceUnavailable, err)
	}

	start := time.Now()
	answer, err := c.breaker.Execute(func() (string, error) {
		answer, err := c.call(ctx, question)
		if err != nil && callerCtx.Err() != nil {
			return "", fmt.Errorf("%w: %w", errCallerGone, callerCtx.Err())
		}
		return answer, err
	})
	metrics.InferenceRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.InferenceFailures.WithLabelValues(failureReason(err)).Inc()
		return "", fmt.Errorf("%w: %w", domain.ErrInferenceUnavailable, err)
	}

	return answer, nil
}

// State reports the breaker state: closed, half-open or open.
func (c *GradioClient) State() string {
	return c.breaker.State().String()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, errCallerGone):
		return "caller_gone"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "upstream"
	}
}

type submitPayload struct {
	Data []string `json:"data"`
}

type submitResponse struct {
	EventID string `json:"event_id"`
}

func (c *GradioClient) call(ctx context.Context, question string) (string, error) {
	eventID, err := c.submit(ctx, question)
	if err != nil {
		return "", err
	}
	return c.result(ctx, eventID)
}

func (c *GradioClient) endpoint() string {
	return fmt.Sprintf("%s/gradio_api/call/%s", c.cfg.BaseURL, c.cfg.APIName)
}

func (c *GradioClient) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	return req, nil
}

func (c *GradioClient) submit(ctx context.Context, question string) (string, error) {
	payloadByte, err := json.Marshal(submitPayload{Data: []string{question}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payloadByte))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit inference call: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", upstreamError("submit", res)
	}

	var out submitResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if out.EventID == "" {
		return "", errors.New("submit response has no event id")
	}

	return out.EventID, nil
}

func (c *GradioClient) result(ctx context.Context, eventID string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint()+"/"+eventID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/event-stream")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to read inference result: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", upstreamError("result", res)
	}

	return readCompleteEvent(res.Body)
}

func upstreamError(stage string, res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	logger.Debug("inference_upstream_error", "stage", stage, "status", res.StatusCode, "body", string(body))
	return fmt.Errorf("inference %s returned status %d", stage, res.StatusCode)
}

// readCompleteEvent scans the event stream until the "complete" event and
// returns the first element of its data array.
func readCompleteEvent(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event string
	var data []string

	flush := func() (string, bool, error) {
		defer func() { event, data = "", nil }()
		switch event {
		case "complete":
			answer, err := decodeAnswer(strings.Join(data, "\n"))
			return answer, true, err
		case "error":
			msg := strings.TrimSpace(strings.Join(data, "\n"))
			if msg == "" || msg == "null" {
				msg = "unknown error"
			}
			return "", true, fmt.Errorf("inference returned an error event: %s", msg)
		}
		return "", false, nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if answer, done, err := flush(); done {
				return answer, err
			}
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read event stream: %w", err)
	}

	// stream closed without a trailing blank line
	if answer, done, err := flush(); done {
		return answer, err
	}
	return "", errors.New("event stream ended without a result")
}

func decodeAnswer(raw string) (string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return "", fmt.Errorf("failed to decode result data: %w", err)
	}
	if len(items) == 0 {
		return "", errors.New("result data is empty")
	}

	var answer string
	if err := json.Unmarshal(items[0], &answer); err == nil {
		return answer, nil
	}
	return string(items[0]), nil
}
