// Package sheets mirrors report rows to the spreadsheet webhook (a Google Apps
// Script web app). Every outcome is returned as a Result; Post never panics or
// returns a bare error.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const (
	SheetProduction = "Production"
	SheetDowntime   = "Downtime"

	// Timeout bounds one webhook call.
	Timeout = 15 * time.Second

	placeholderMarker = "YOUR_DEPLOYMENT_ID"
	maxReplySize      = 1 << 20
)

type FailureKind string

const (
	KindNone          FailureKind = ""
	KindNotConfigured FailureKind = "not_configured"
	KindTimeout       FailureKind = "timeout"
	KindTransport     FailureKind = "transport"
	KindServer        FailureKind = "server"
)

var (
	ErrNotConfigured = errors.New("webhook endpoint is not configured")
	ErrTimeout       = errors.New("webhook request timed out")
	ErrTransport     = errors.New("webhook transport failure")
	ErrServer        = errors.New("webhook server error")
)

type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Kind    FailureKind `json:"-"`
	Err     error       `json:"-"`
}

// EndpointSource yields the current webhook URL. It is consulted on every call.
type EndpointSource interface {
	Endpoint() string
}

// Endpoint is an EndpointSource that can be swapped at runtime, e.g. on config reload.
type Endpoint struct {
	url atomic.Value
}

func NewEndpoint(url string) *Endpoint {
	e := &Endpoint{}
	e.Set(url)
	return e
}

func (e *Endpoint) Set(url string) {
	e.url.Store(strings.TrimSpace(url))
}

func (e *Endpoint) Endpoint() string {
	v, _ := e.url.Load().(string)
	return v
}

// Configured reports whether url points at a real deployment.
func Configured(url string) bool {
	return url != "" && !strings.Contains(url, placeholderMarker)
}

type Client struct {
	log      *slog.Logger
	endpoint EndpointSource
	http     *http.Client
	timeout  time.Duration
}

func New(log *slog.Logger, endpoint EndpointSource) *Client {
	return &Client{
		log:      log,
		endpoint: endpoint,
		http:     &http.Client{},
		timeout:  Timeout,
	}
}

type request struct {
	SheetName string         `json:"sheetName"`
	Data      map[string]any `json:"data"`
}

type reply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Post(ctx context.Context, sheetName string, data map[string]any) (res Result) {
	const op = "sheets.Client.Post"

	log := c.log.With(slog.String("op", op), slog.String("sheet", sheetName))

	defer func() {
		if r := recover(); r != nil {
			res = failure(KindTransport, fmt.Errorf("%s: panic: %v: %w", op, r, ErrTransport),
				fmt.Sprintf("Sending data failed: %v", r))
			log.Error("webhook call panicked", slog.Any("panic", r))
		}
	}()

	url := ""
	if c.endpoint != nil {
		url = c.endpoint.Endpoint()
	}
	if !Configured(url) {
		log.Warn("webhook endpoint is not configured, data not sent")
		return failure(KindNotConfigured, ErrNotConfigured,
			"The spreadsheet endpoint is not configured. Please contact an administrator.")
	}

	body, err := json.Marshal(request{SheetName: sheetName, Data: data})
	if err != nil {
		return failure(KindTransport, fmt.Errorf("%s: encode: %v: %w", op, err, ErrTransport),
			fmt.Sprintf("Sending data failed: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return failure(KindTransport, fmt.Errorf("%s: build request: %v: %w", op, err, ErrTransport),
			fmt.Sprintf("Sending data failed: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("webhook request timed out", slog.Duration("timeout", c.timeout))
			return failure(KindTimeout, fmt.Errorf("%s: %v: %w", op, err, ErrTimeout),
				"The request timed out. Please try again.")
		}
		log.Error("webhook request failed", slog.String("error", err.Error()))
		return failure(KindTransport, fmt.Errorf("%s: %v: %w", op, err, ErrTransport),
			"Connection error: could not reach the spreadsheet. Please check the webhook URL and its access settings.")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return failure(KindTimeout, fmt.Errorf("%s: read reply: %v: %w", op, err, ErrTimeout),
				"The request timed out. Please try again.")
		}
		return failure(KindTransport, fmt.Errorf("%s: read reply: %v: %w", op, err, ErrTransport),
			fmt.Sprintf("Sending data failed: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("webhook answered with bad status", slog.Int("status", resp.StatusCode))
		return failure(KindServer, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, ErrServer),
			fmt.Sprintf("Network error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var rep reply
	if err := json.Unmarshal(raw, &rep); err != nil {
		log.Error("webhook reply is not JSON", slog.String("error", err.Error()))
		return failure(KindServer, fmt.Errorf("%s: decode reply: %v: %w", op, err, ErrServer),
			"Server error: the spreadsheet returned an unreadable response.")
	}

	if rep.Status != "success" {
		log.Error("webhook rejected the row", slog.String("status", rep.Status), slog.String("message", rep.Message))
		return failure(KindServer, fmt.Errorf("%s: status %q: %s: %w", op, rep.Status, rep.Message, ErrServer),
			"Server error: "+rep.Message)
	}

	log.Info("row sent to spreadsheet")

	return Result{Success: true, Message: "Data was sent successfully!"}
}

// Close drops idle keep-alive connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func failure(kind FailureKind, err error, message string) Result {
	return Result{Success: false, Message: message, Kind: kind, Err: err}
}
