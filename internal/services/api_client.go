package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/walletkun/jobapp-tracker/internal/dtos"
	"github.com/walletkun/jobapp-tracker/internal/models"
)

const (
	applicationsPath = "/api/applications"
	applicationPath  = "/api/applications/{id}"
	statsPath        = "/api/applications/stats"

	HeaderRequestID = "X-Request-ID"
)

// Generic messages shown when the backend gives no reason.
const (
	MsgFetchFailed  = "Failed to fetch applications"
	MsgGetFailed    = "Failed to fetch application"
	MsgCreateFailed = "Failed to create application"
	MsgUpdateFailed = "Failed to update application status"
	MsgDeleteFailed = "Failed to delete application"
	MsgStatsFailed  = "Failed to fetch application statistics"
)

// APIError is a failed call to the applications API. Message is what the
// user sees: the backend's "error" field or the generic text for the call.
// Err keeps the transport or decoding failure, if any, for logs.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type requestIDKey struct{}

// WithRequestID makes outgoing calls made with ctx carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// APIClient talks to the remote applications collection.
type APIClient struct {
	rest *resty.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	rest.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(HeaderRequestID) == "" {
			r.SetHeader(HeaderRequestID, requestIDFrom(r.Context()))
		}
		return nil
	})

	return &APIClient{rest: rest}
}

// List returns the whole collection.
func (c *APIClient) List(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&apps).
		Get(applicationsPath)
	if err != nil {
		return nil, transportError("list", MsgFetchFailed, fmt.Errorf("list applications: %w", err))
	}
	// The fetch path never surfaces the backend's reason.
	if resp.IsError() {
		return nil, &APIError{Op: "list", StatusCode: resp.StatusCode(), Message: MsgFetchFailed}
	}
	if err := expectJSON("list", resp, MsgFetchFailed); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (c *APIClient) Get(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetResult(&app).
		Get(applicationPath)
	if err != nil {
		return nil, transportError("get", MsgGetFailed, fmt.Errorf("get application %d: %w", id, err))
	}
	if resp.IsError() {
		return nil, bodyError("get", resp, MsgGetFailed)
	}
	if err := expectJSON("get", resp, MsgGetFailed); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *APIClient) Create(ctx context.Context, req dtos.CreateApplicationRequest) (*models.Application, error) {
	var app models.Application
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&app).
		Post(applicationsPath)
	if err != nil {
		return nil, transportError("create", MsgCreateFailed, fmt.Errorf("create application: %w", err))
	}
	if resp.IsError() {
		return nil, bodyError("create", resp, MsgCreateFailed)
	}
	if err := expectJSON("create", resp, MsgCreateFailed); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *APIClient) UpdateStatus(ctx context.Context, id uint, req dtos.UpdateStatusRequest) (*models.Application, error) {
	var app models.Application
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetBody(req).
		SetResult(&app).
		Patch(applicationPath)
	if err != nil {
		return nil, transportError("update", MsgUpdateFailed, fmt.Errorf("update application %d: %w", id, err))
	}
	if resp.IsError() {
		return nil, bodyError("update", resp, MsgUpdateFailed)
	}
	if err := expectJSON("update", resp, MsgUpdateFailed); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *APIClient) Delete(ctx context.Context, id uint) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Delete(applicationPath)
	if err != nil {
		return transportError("delete", MsgDeleteFailed, fmt.Errorf("delete application %d: %w", id, err))
	}
	if resp.IsError() {
		return &APIError{Op: "delete", StatusCode: resp.StatusCode(), Message: MsgDeleteFailed}
	}
	return nil
}

func (c *APIClient) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&stats).
		Get(statsPath)
	if err != nil {
		return nil, transportError("stats", MsgStatsFailed, fmt.Errorf("application stats: %w", err))
	}
	if resp.IsError() {
		return nil, bodyError("stats", resp, MsgStatsFailed)
	}
	if err := expectJSON("stats", resp, MsgStatsFailed); err != nil {
		return nil, err
	}
	return &stats, nil
}

func bodyError(op string, resp *resty.Response, fallback string) *APIError {
	msg := dtos.ErrorMessage(resp.Body())
	if msg == "" {
		msg = fallback
	}
	return &APIError{Op: op, StatusCode: resp.StatusCode(), Message: msg}
}

func transportError(op, generic string, err error) *APIError {
	return &APIError{Op: op, Message: generic, Err: err}
}

// expectJSON rejects 2xx answers that are not JSON, such as a proxy's
// maintenance page, which would otherwise decode into nothing.
func expectJSON(op string, resp *resty.Response, generic string) *APIError {
	ct := strings.ToLower(resp.Header().Get("Content-Type"))
	if strings.Contains(ct, "json") {
		return nil
	}
	return &APIError{
		Op:         op,
		StatusCode: resp.StatusCode(),
		Message:    generic,
		Err:        fmt.Errorf("%s: unexpected content type %q", op, ct),
	}
}
