// Package apiclient is the typed client of the backend REST API. Every call
// is bound to the caller's context plus a per-call timeout, so a browser that
// goes away cancels the upstream request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"internship-portal/internal/common/errors"
	commonhttp "internship-portal/internal/common/http"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/common/metrics"
	"internship-portal/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 4 << 20

type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  logger.Logger
	// Observability supplies the tracer and otel meters. Optional.
	Observability *observability.Observability
	HTTPClient    *commonhttp.Client
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *commonhttp.Client
	log     logger.Logger
	obs     *observability.Observability
	tracer  trace.Tracer
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", base, err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewStructured("info", "json")
	}
	if opts.HTTPClient == nil {
		// the per-call context deadline is authoritative; the client timeout
		// only backstops it
		opts.HTTPClient = commonhttp.NewClient(2 * opts.Timeout)
	}

	return &Client{
		baseURL: base,
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		log:     opts.Logger.WithFields(map[string]interface{}{"component": "apiclient"}),
		obs:     opts.Observability,
		tracer:  opts.Observability.Tracer(),
	}, nil
}

// call describes one upstream request. route is the templated path used for
// metric labels and span names; path is the concrete one.
type call struct {
	method string
	route  string
	path   string
	token  string
	query  url.Values
	body   interface{}
	out    interface{}
}

func (c *Client) do(ctx context.Context, cl call) error {
	endpoint := cl.method + " " + cl.route
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, endpoint, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("http.route", cl.route),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, err := c.roundTrip(ctx, cl, endpoint)
	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	observability.EndSpan(span, err)

	outcome := "success"
	if err != nil {
		stdErr := errors.Normalize(err)
		outcome = strings.ToLower(errors.GetErrorCategory(stdErr.Code))
		fields := map[string]interface{}{
			"endpoint":  endpoint,
			"status":    status,
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		}
		if stdErr.Code == errors.ErrCodeRequestCanceled {
			logger.FromContext(ctx, c.log).Debug("api call canceled", fields)
		} else {
			logger.FromContext(ctx, c.log).Warn("api call failed", fields)
		}
	}

	elapsed := time.Since(start)
	metrics.APICalls.WithLabelValues(endpoint, outcome).Inc()
	metrics.APICallDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	c.obs.RecordAPIDuration(ctx, endpoint, outcome, elapsed)
	return err
}

func (c *Client) roundTrip(ctx context.Context, cl call, endpoint string) (int, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return 0, errors.NewInternalError(fmt.Errorf("encode %s: %w", endpoint, err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := commonhttp.NewRequest(ctx, cl.method, target, cl.token, body)
	if err != nil {
		return 0, errors.NewInternalError(fmt.Errorf("build %s: %w", endpoint, err))
	}

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return 0, classifyTransportError(ctx, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, classifyTransportError(ctx, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, errors.FromStatus(resp.StatusCode, data)
	}
	if cl.out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := decode(data, cl.out); err != nil {
		return resp.StatusCode, &errors.StandardError{
			Code:      errors.ErrCodeAPIError,
			Message:   "Malformed backend response",
			Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()),
			Status:    resp.StatusCode,
			Timestamp: time.Now().UTC(),
		}
	}
	return resp.StatusCode, nil
}

func classifyTransportError(ctx context.Context, endpoint string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.FromContext(endpoint, ctxErr)
	}
	if stdErr := errors.FromContext(endpoint, err); stdErr != nil {
		return stdErr
	}
	var netErr interface{ Timeout() bool }
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewAPITimeoutError(endpoint)
	}
	return errors.NewAPIUnreachableError(endpoint, err)
}

// decode accepts either the bare value or a list wrapped as {"items": [...]}
// or {"data": [...]}.
func decode(data []byte, out interface{}) error {
	err := json.Unmarshal(data, out)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if !stderrors.As(err, &typeErr) || bytes.TrimSpace(data)[0] != '{' {
		return err
	}

	var envelope struct {
		Items json.RawMessage `json:"items"`
		Data  json.RawMessage `json:"data"`
	}
	if json.Unmarshal(data, &envelope) != nil {
		return err
	}
	switch {
	case len(envelope.Items) > 0:
		return json.Unmarshal(envelope.Items, out)
	case len(envelope.Data) > 0:
		return json.Unmarshal(envelope.Data, out)
	}
	return err
}

func pathID(id string) string {
	return url.PathEscape(id)
}
