package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/bwmarrin/snowflake"
)

type customerBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func bodyFrom(in dashboard.RecordInput) customerBody {
	return customerBody{Name: in.Name, Email: in.Email, Phone: in.Phone, Notes: in.Notes}
}

func (c *Client) FetchPage(ctx context.Context, q dashboard.PageQuery) (dashboard.PageResult, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(q.Offset))
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		query.Set("sort", string(q.Sort))
	}
	if q.Search != "" {
		query.Set("q", q.Search)
	}
	if q.From != nil {
		query.Set("from", q.From.UTC().Format(time.RFC3339Nano))
	}
	if q.To != nil {
		query.Set("to", q.To.UTC().Format(time.RFC3339Nano))
	}

	var out struct {
		Data  []dashboard.Record `json:"data"`
		Count int64              `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/customers", query, nil, &out); err != nil {
		return dashboard.PageResult{}, err
	}
	return dashboard.PageResult{Records: out.Data, Count: out.Count}, nil
}

func (c *Client) FetchCreatedAt(ctx context.Context) ([]time.Time, error) {
	var out envelope[[]time.Time]
	if err := c.do(ctx, http.MethodGet, "/api/customers/created-at", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Get(ctx context.Context, id snowflake.ID) (dashboard.Record, error) {
	var out envelope[dashboard.Record]
	if err := c.do(ctx, http.MethodGet, "/api/customers/"+id.String(), nil, nil, &out); err != nil {
		return dashboard.Record{}, err
	}
	return out.Data, nil
}

// Insert creates a record. The server assigns the owner from the session,
// so ownerID only has to be non-zero.
func (c *Client) Insert(ctx context.Context, ownerID snowflake.ID, in dashboard.RecordInput) (dashboard.Record, error) {
	if ownerID == 0 {
		return dashboard.Record{}, dashboard.ErrNotAuthenticated
	}
	var out envelope[dashboard.Record]
	if err := c.do(ctx, http.MethodPost, "/api/customers", nil, bodyFrom(in), &out); err != nil {
		return dashboard.Record{}, err
	}
	return out.Data, nil
}

func (c *Client) Update(ctx context.Context, id snowflake.ID, in dashboard.RecordInput) (dashboard.Record, error) {
	var out envelope[dashboard.Record]
	if err := c.do(ctx, http.MethodPatch, "/api/customers/"+id.String(), nil, bodyFrom(in), &out); err != nil {
		return dashboard.Record{}, err
	}
	return out.Data, nil
}

func (c *Client) Delete(ctx context.Context, id snowflake.ID) error {
	return c.do(ctx, http.MethodDelete, "/api/customers/"+id.String(), nil, nil, nil)
}
