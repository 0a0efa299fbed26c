package supabase

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ecohabit/backend/pkg/api"
)

// QueryBuilder builds a PostgREST request on one table.
type QueryBuilder struct {
	client      *Client
	table       string
	params      api.Parameter
	single      bool
	token       string
	serviceRole bool
}

func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{client: c, table: table, params: api.Parameter{}}
}

func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.params["select"] = columns
	return q
}

func (q *QueryBuilder) Eq(column, value string) *QueryBuilder {
	q.params[column] = "eq." + value
	return q
}

func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	direction := "desc"
	if ascending {
		direction = "asc"
	}

	q.params["order"] = column + "." + direction
	return q
}

func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.params["limit"] = strconv.Itoa(n)
	return q
}

// Single expects exactly one row and decodes it as an object.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	return q
}

// WithToken runs the request as the signed-in user.
func (q *QueryBuilder) WithToken(token string) *QueryBuilder {
	q.token = token
	return q
}

// AsServiceRole runs the request with the service role key when one is
// configured. Row level security is bypassed.
func (q *QueryBuilder) AsServiceRole() *QueryBuilder {
	q.serviceRole = q.client.cfg.ServiceRoleKey != ""
	return q
}

func (q *QueryBuilder) request() api.Client {
	key, token := q.client.cfg.AnonKey, q.token
	if q.serviceRole {
		key, token = q.client.cfg.ServiceRoleKey, ""
	}

	req := q.client.newRequest(key, token, "/rest/v1/%s", q.table).Query(q.params)
	if q.single {
		req = req.Header("Accept", "application/vnd.pgrst.object+json")
	}

	return req
}

// Execute runs a select and decodes the rows into v.
func (q *QueryBuilder) Execute(ctx context.Context, v any) error {
	resp, err := q.request().GET(ctx)
	if err != nil {
		return err
	}

	if q.single && resp.Code == http.StatusNotAcceptable {
		return ErrNoRows
	}

	if err := checkResponse(resp); err != nil {
		return err
	}

	if v == nil {
		return nil
	}

	return resp.Decode(v)
}

// Insert creates rows from data. When v is not nil the created rows are
// decoded into it.
func (q *QueryBuilder) Insert(ctx context.Context, data any, v any) error {
	resp, err := q.request().
		Header("Prefer", "return=representation").
		Body(api.Object{V: data}).
		POST(ctx)
	if err != nil {
		return err
	}

	if err := checkResponse(resp); err != nil {
		return err
	}

	if v == nil {
		return nil
	}

	return resp.Decode(v)
}

// Update patches the rows matched by the filters.
func (q *QueryBuilder) Update(ctx context.Context, data any) error {
	resp, err := q.request().Body(api.Object{V: data}).PATCH(ctx)
	if err != nil {
		return err
	}

	return checkResponse(resp)
}
