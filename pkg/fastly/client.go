package fastly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/openedge/fastsync/pkg/config"
	"github.com/openedge/fastsync/pkg/telemetry"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.fastly.com"

// kindPath maps each resource kind to its path segment under
// /service/{id}/version/{n}/. Logging destinations live under logging/.
var kindPath = map[config.Kind]string{
	config.KindDomain:         "domain",
	config.KindHealthcheck:    "healthcheck",
	config.KindCondition:      "condition",
	config.KindBackend:        "backend",
	config.KindDirector:       "director",
	config.KindCacheSettings:  "cache_settings",
	config.KindGzip:           "gzip",
	config.KindHeader:         "header",
	config.KindRequestSetting: "request_settings",
	config.KindResponseObject: "response_object",
	config.KindVclSnippet:     "snippet",
	config.KindVcl:            "vcl",
	config.KindS3Logger:       "logging/s3",
	config.KindSyslogLogger:   "logging/syslog",
	config.KindCloudFiles:     "logging/cloudfiles",
	config.KindDictionary:     "dictionary",
}

// Client talks to the versioned configuration API. Every call is a blocking
// round trip authenticated with the bearer credential; no retries are
// performed at this layer, so a single failed call aborts the caller's whole
// reconciliation.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	metrics *telemetry.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at an alternative API endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for the given API key. The transport is a
// retryablehttp client with retries disabled: the reconciliation contract is
// that a failed call aborts rather than retries.
func NewClient(apiKey string, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil

	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    rc.StandardClient(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is one decoded remote response.
type apiResponse struct {
	status  int
	payload any
}

// pmap returns the payload as an object, nil when it is not one.
func (r *apiResponse) pmap() map[string]any {
	m, _ := r.payload.(map[string]any)
	return m
}

// detail extracts the remote system's failure reason.
func (r *apiResponse) detail() string {
	m := r.pmap()
	if m == nil {
		return ""
	}
	if d, ok := m["detail"].(string); ok && d != "" {
		return d
	}
	if d, ok := m["msg"].(string); ok {
		return d
	}
	return ""
}

// request performs one API round trip and decodes the JSON response body.
func (c *Client) request(ctx context.Context, operation, method, path string, body any) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("fastly: encoding %s request: %w", operation, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("fastly: building %s request: %w", operation, err)
	}
	req.Header.Set("Fastly-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordAPIRequest(operation, "error", time.Since(start))
		return nil, fmt.Errorf("fastly: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fastly: reading %s response: %w", operation, err)
	}

	out := &apiResponse{status: resp.StatusCode}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out.payload); err != nil {
			return nil, fmt.Errorf("fastly: %s returned unparseable body (status %d): %w", operation, resp.StatusCode, err)
		}
	}

	c.metrics.RecordAPIRequest(operation, resp.Status, time.Since(start))
	c.log.Debug().
		Str("operation", operation).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	return out, nil
}

func (c *Client) remoteErr(operation string, kind config.Kind, serviceID string, version int, resp *apiResponse) error {
	return &RemoteError{
		Operation: operation,
		Kind:      kind,
		ServiceID: serviceID,
		Version:   version,
		Status:    resp.status,
		Detail:    resp.detail(),
	}
}

// GetServiceByName looks a service up by its unique name. A 404 is a valid
// "not found" outcome and returns nil, nil.
func (c *Client) GetServiceByName(ctx context.Context, name string) (*Service, error) {
	const op = "search service"
	path := "/service/search?name=" + url.QueryEscape(name)
	resp, err := c.request(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	switch resp.status {
	case http.StatusOK:
		id, _ := resp.pmap()["id"].(string)
		return c.GetService(ctx, id)
	case http.StatusNotFound:
		return nil, nil
	}
	return nil, c.remoteErr(op, "", "", 0, resp)
}

// GetService fetches the service details, including the embedded active and
// latest version configurations. A 404 returns nil, nil.
func (c *Client) GetService(ctx context.Context, serviceID string) (*Service, error) {
	const op = "fetch service details"
	path := "/service/" + url.PathEscape(serviceID) + "/details"
	resp, err := c.request(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	switch resp.status {
	case http.StatusOK:
		return serviceFromPayload(resp.pmap())
	case http.StatusNotFound:
		return nil, nil
	}
	return nil, c.remoteErr(op, "", serviceID, 0, resp)
}

// CreateService creates a service with the given name and returns its
// details.
func (c *Client) CreateService(ctx context.Context, name string) (*Service, error) {
	const op = "create service"
	resp, err := c.request(ctx, op, http.MethodPost, "/service", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, c.remoteErr(op, "", "", 0, resp)
	}
	id, _ := resp.pmap()["id"].(string)
	return c.GetService(ctx, id)
}

// DeleteService deletes a service by name. When deactivateFirst is set and
// the service has an active version, that version is deactivated before the
// delete, since the remote system refuses to delete a service that is still
// serving traffic. Returns false when the service does not exist.
func (c *Client) DeleteService(ctx context.Context, name string, deactivateFirst bool) (bool, error) {
	const op = "delete service"
	svc, err := c.GetServiceByName(ctx, name)
	if err != nil {
		return false, err
	}
	if svc == nil {
		return false, nil
	}
	if svc.ActiveVersion != nil && deactivateFirst {
		if err := c.DeactivateVersion(ctx, svc.ID, svc.ActiveVersion.Number); err != nil {
			return false, err
		}
	}
	resp, err := c.request(ctx, op, http.MethodDelete, "/service/"+url.PathEscape(svc.ID), nil)
	if err != nil {
		return false, err
	}
	if resp.status != http.StatusOK {
		return false, c.remoteErr(op, "", svc.ID, 0, resp)
	}
	return true, nil
}

// CreateVersion creates an empty draft version and returns its number.
func (c *Client) CreateVersion(ctx context.Context, serviceID string) (int, error) {
	const op = "create version"
	path := "/service/" + url.PathEscape(serviceID) + "/version"
	resp, err := c.request(ctx, op, http.MethodPost, path, nil)
	if err != nil {
		return 0, err
	}
	if resp.status != http.StatusOK {
		return 0, c.remoteErr(op, "", serviceID, 0, resp)
	}
	return payloadInt(resp.pmap(), "number")
}

// CloneVersion clones an existing version into a new draft, preserving its
// resources, and returns the new version number.
func (c *Client) CloneVersion(ctx context.Context, serviceID string, version int) (int, error) {
	const op = "clone version"
	path := fmt.Sprintf("/service/%s/version/%d/clone", url.PathEscape(serviceID), version)
	resp, err := c.request(ctx, op, http.MethodPut, path, nil)
	if err != nil {
		return 0, err
	}
	if resp.status != http.StatusOK {
		return 0, c.remoteErr(op, "", serviceID, version, resp)
	}
	return payloadInt(resp.pmap(), "number")
}

// ActivateVersion activates a version, making it the one serving traffic.
func (c *Client) ActivateVersion(ctx context.Context, serviceID string, version int) error {
	const op = "activate version"
	path := fmt.Sprintf("/service/%s/version/%d/activate", url.PathEscape(serviceID), version)
	resp, err := c.request(ctx, op, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return c.remoteErr(op, "", serviceID, version, resp)
	}
	return nil
}

// DeactivateVersion deactivates the active version.
func (c *Client) DeactivateVersion(ctx context.Context, serviceID string, version int) error {
	const op = "deactivate version"
	path := fmt.Sprintf("/service/%s/version/%d/deactivate", url.PathEscape(serviceID), version)
	resp, err := c.request(ctx, op, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return c.remoteErr(op, "", serviceID, version, resp)
	}
	return nil
}

func (c *Client) resourcePath(serviceID string, version int, kind config.Kind) string {
	return fmt.Sprintf("/service/%s/version/%d/%s", url.PathEscape(serviceID), version, kindPath[kind])
}

// CreateResource creates one resource inside a draft version. Creating a
// director additionally attaches each of its listed backends with one
// relationship call per backend.
func (c *Client) CreateResource(ctx context.Context, serviceID string, version int, res config.Resource) error {
	kind := res.Kind()
	op := "create " + string(kind)
	resp, err := c.request(ctx, op, http.MethodPost, c.resourcePath(serviceID, version, kind), res)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return c.remoteErr(op, kind, serviceID, version, resp)
	}

	if director, ok := res.(*config.Director); ok {
		if err := c.attachDirectorBackends(ctx, serviceID, version, director); err != nil {
			return err
		}
	}
	return nil
}

// attachDirectorBackends establishes the director/backend relationships. Any
// failed attach aborts with an error naming the pair.
func (c *Client) attachDirectorBackends(ctx context.Context, serviceID string, version int, director *config.Director) error {
	for _, backend := range director.Backends {
		op := fmt.Sprintf("attach backend %q to director %q", backend, director.Name)
		path := fmt.Sprintf("/service/%s/version/%d/director/%s/backend/%s",
			url.PathEscape(serviceID), version, url.PathEscape(director.Name), url.PathEscape(backend))
		resp, err := c.request(ctx, op, http.MethodPost, path, nil)
		if err != nil {
			return err
		}
		if resp.status != http.StatusOK {
			return c.remoteErr(op, config.KindDirector, serviceID, version, resp)
		}
	}
	return nil
}

// UpdateResource updates a resource in place, keyed by the name it currently
// has in the draft version. A rename ships the new name in the payload while
// the path still carries the old one.
func (c *Client) UpdateResource(ctx context.Context, serviceID string, version int, oldName string, res config.Resource) error {
	kind := res.Kind()
	op := "update " + string(kind)
	path := c.resourcePath(serviceID, version, kind) + "/" + url.PathEscape(oldName)
	resp, err := c.request(ctx, op, http.MethodPut, path, res)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return c.remoteErr(op, kind, serviceID, version, resp)
	}
	return nil
}

// DeleteResource removes a resource from a draft version by name.
func (c *Client) DeleteResource(ctx context.Context, serviceID string, version int, kind config.Kind, name string) error {
	op := "delete " + string(kind)
	path := c.resourcePath(serviceID, version, kind) + "/" + url.PathEscape(name)
	resp, err := c.request(ctx, op, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return c.remoteErr(op, kind, serviceID, version, resp)
	}
	return nil
}

// ListResources fetches the raw payloads of every resource of one kind in a
// version.
func (c *Client) ListResources(ctx context.Context, serviceID string, version int, kind config.Kind) ([]map[string]any, error) {
	op := "list " + string(kind)
	resp, err := c.request(ctx, op, http.MethodGet, c.resourcePath(serviceID, version, kind), nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, c.remoteErr(op, kind, serviceID, version, resp)
	}
	items, _ := resp.payload.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// UpdateSettings applies the settings singleton to a draft version. Settings
// are always updated in place, never created or deleted.
func (c *Client) UpdateSettings(ctx context.Context, serviceID string, version int, settings *config.Settings) error {
	const op = "update settings"
	path := fmt.Sprintf("/service/%s/version/%d/settings", url.PathEscape(serviceID), version)
	resp, err := c.request(ctx, op, http.MethodPut, path, settings)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return c.remoteErr(op, config.KindSettings, serviceID, version, resp)
	}
	return nil
}
