// ABOUTME: HTTP client for the vehicle rental REST API
// ABOUTME: Typed calls for reference data, vehicles, reservations, and notifications

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openrental/rentctl/internal/rental"
	"github.com/openrental/rentctl/internal/session"
)

// Client is the gateway to the rental backend. All calls go through the auth
// transport, which handles bearer attachment and the one-shot refresh policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an API client for the given base URL, authenticated by sess.
func New(baseURL string, sess *session.Session) *Client {
	base := strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newAuthTransport(nil, sess, base),
		},
	}
}

// BaseURL returns the resolved API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiError is a backend-reported failure, surfaced verbatim when the backend
// supplies a detail message.
type apiError struct {
	StatusCode int
	Detail     string
}

func (e *apiError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a backend 401 (after the refresh
// policy already ran its course).
func IsUnauthorized(err error) bool {
	var ae *apiError
	return asAPIError(err, &ae) && ae.StatusCode == http.StatusUnauthorized
}

// decodeAPIError reads a non-2xx response body. The backend reports failures
// as {"detail": "..."}; anything else falls back to the status code.
func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		detail = payload.Detail
		if detail == "" {
			detail = payload.Error
		}
	}
	return &apiError{StatusCode: resp.StatusCode, Detail: detail}
}

// handleRequestError converts transport failures to user-facing messages.
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	var re *RefreshError
	if asRefreshError(err, &re) {
		return re
	}
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot reach backend at %s: %w", c.baseURL, err)
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(ctx, req, out)
}

// sendJSON issues a request with a JSON body and decodes the response into out.
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// Locations calls GET /locations_filter.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var out []Location
	if err := c.getJSON(ctx, "/locations_filter", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Brands calls GET /brands_models_filter; models come nested per brand.
func (c *Client) Brands(ctx context.Context) ([]Brand, error) {
	var out []Brand
	if err := c.getJSON(ctx, "/brands_models_filter", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VehicleTypes calls GET /vehicle_type_filter.
func (c *Client) VehicleTypes(ctx context.Context) ([]VehicleType, error) {
	var out []VehicleType
	if err := c.getJSON(ctx, "/vehicle_type_filter", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EngineTypes calls GET /engine_type_filter.
func (c *Client) EngineTypes(ctx context.Context) ([]EngineType, error) {
	var out []EngineType
	if err := c.getJSON(ctx, "/engine_type_filter", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadCatalog fetches all four reference-data lists concurrently.
func (c *Client) LoadCatalog(ctx context.Context) (*Catalog, error) {
	var cat Catalog
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		cat.Locations, err = c.Locations(gctx)
		return
	})
	g.Go(func() (err error) {
		cat.Brands, err = c.Brands(gctx)
		return
	})
	g.Go(func() (err error) {
		cat.VehicleTypes, err = c.VehicleTypes(gctx)
		return
	})
	g.Go(func() (err error) {
		cat.EngineTypes, err = c.EngineTypes(gctx)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// SearchVehicles calls GET /public/vehicles/available/ with the given filter
// query. Callers validate filters before reaching this point.
func (c *Client) SearchVehicles(ctx context.Context, filters rental.Filters) ([]rental.Vehicle, error) {
	var out []rental.Vehicle
	if err := c.getJSON(ctx, "/public/vehicles/available/", filters.Query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FeaturedVehicles calls the availability endpoint in random mode for the
// landing view.
func (c *Client) FeaturedVehicles(ctx context.Context, count int) ([]rental.Vehicle, error) {
	q := url.Values{}
	q.Set("random", fmt.Sprint(count))
	var out []rental.Vehicle
	if err := c.getJSON(ctx, "/public/vehicles/available/", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Vehicle calls GET /public/vehicles/:id/, passing the current availability
// window through so the detail reflects the searched period.
func (c *Client) Vehicle(ctx context.Context, id int, filters rental.Filters) (*rental.Vehicle, error) {
	q := url.Values{}
	if filters.LocationID != 0 {
		q.Set("location_id", fmt.Sprint(filters.LocationID))
	}
	if filters.Start != "" && filters.End != "" {
		q.Set("start", rental.NormalizeInstant(filters.Start))
		q.Set("end", rental.NormalizeInstant(filters.End))
	}
	var out rental.Vehicle
	if err := c.getJSON(ctx, fmt.Sprintf("/public/vehicles/%d/", id), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReservation calls POST /public/reservations/.
func (c *Client) CreateReservation(ctx context.Context, input ReservationInput) (*Reservation, error) {
	var out Reservation
	if err := c.sendJSON(ctx, http.MethodPost, "/public/reservations/", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reservations calls GET /user_reservations with status "active" or "history".
func (c *Client) Reservations(ctx context.Context, status string) ([]Reservation, error) {
	q := url.Values{}
	q.Set("status", status)

	var raw json.RawMessage
	if err := c.getJSON(ctx, "/user_reservations", q, &raw); err != nil {
		return nil, err
	}
	return unwrapList[Reservation](raw)
}

// CancelReservation calls PATCH /user_reservations/:id/ with a flat status
// string, the shape the backend's cancel serializer accepts.
func (c *Client) CancelReservation(ctx context.Context, id int) (*Reservation, error) {
	var out Reservation
	body := map[string]string{"status": "cancelled"}
	if err := c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/user_reservations/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Notifications calls GET /notifications/, unwrapping either a plain array
// or a paginated {results: []} envelope.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/notifications/", nil, &raw); err != nil {
		return nil, err
	}
	return unwrapList[Notification](raw)
}

// MarkNotificationRead calls PATCH /notifications/:id/ {is_read: true}.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) (*Notification, error) {
	var out Notification
	body := map[string]bool{"is_read": true}
	if err := c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/notifications/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAllNotificationsRead marks every given id read, one call per id.
// Failures abort early; the caller reloads either way.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, ids []int) error {
	for _, id := range ids {
		if _, err := c.MarkNotificationRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// unwrapList accepts either a bare JSON array or a DRF-paginated envelope.
func unwrapList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("invalid response from backend: %w", err)
		}
		return list, nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return page.Results, nil
}
