package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Filter is one PostgREST row filter, rendered as column=op.value.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Eq filters rows where column equals value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// Neq filters rows where column differs from value.
func Neq(column, value string) Filter {
	return Filter{Column: column, Op: "neq", Value: value}
}

// Ilike filters rows where column matches the pattern case-insensitively.
// PostgREST uses * as the wildcard.
func Ilike(column, pattern string) Filter {
	return Filter{Column: column, Op: "ilike", Value: pattern}
}

// Query shapes a PostgREST read. The zero value selects every column of every
// row.
type Query struct {
	// Select restricts returned columns ("slug,name,hero_image_path").
	Select string
	// Filters are ANDed together.
	Filters []Filter
	// Order is a PostgREST order expression ("title.asc", "occurred_at.desc").
	Order string
	// Limit caps returned rows.
	Limit int
}

func (q Query) encode() url.Values {
	values := url.Values{}
	if q.Select != "" {
		values.Set("select", q.Select)
	}
	for _, f := range q.Filters {
		values.Set(f.Column, f.Op+"."+f.Value)
	}
	if q.Order != "" {
		values.Set("order", q.Order)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

func (c *Client) restURL(table string) string {
	return c.baseURL + "/rest/v1/" + url.PathEscape(table)
}

// Select reads rows from a table into out, which must be a pointer to a slice
// of row structs with json tags matching the column names.
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	rawURL := c.restURL(table)
	if params := q.encode(); len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return fmt.Errorf("select from %q: %w", table, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode rows from %q: %w", table, err)
	}
	return nil
}

// Insert appends rows to a table. rows marshals to a JSON array of objects.
func (c *Client) Insert(ctx context.Context, table string, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows for %q: %w", table, err)
	}

	_, err = c.do(ctx, http.MethodPost, c.restURL(table), bytes.NewReader(payload), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	})
	if err != nil {
		return fmt.Errorf("insert into %q: %w", table, err)
	}
	return nil
}

// Upsert writes rows, merging on the conflict column so reruns are idempotent.
func (c *Client) Upsert(ctx context.Context, table, onConflict string, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows for %q: %w", table, err)
	}

	rawURL := c.restURL(table)
	if onConflict != "" {
		rawURL += "?on_conflict=" + url.QueryEscape(onConflict)
	}

	_, err = c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(payload), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	})
	if err != nil {
		return fmt.Errorf("upsert into %q: %w", table, err)
	}
	return nil
}
