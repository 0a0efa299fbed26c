package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_defaultClient_POST(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/add-score", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "u1", body["user_id"])

		w.Write([]byte(`{"ok":true,"total":{"points":15}}`))
	}))
	defer server.Close()

	resp, err := NewGenerator(server.URL).New("/add-score").
		Body(JSON{"user_id": "u1", "points": 15}).
		POST(context.Background(), OAuth2("Bearer", "token"))
	require.NoError(t, err)
	require.True(t, resp.OK())

	body, ok := resp.Body.(JSON)
	require.True(t, ok)
	points, err := body.GetInt("total.points")
	require.NoError(t, err)
	require.Equal(t, 15, points)
}

func Test_defaultClient_FallbackDomain(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer server.Close()

	// The unreachable domain is skipped whatever the order.
	resp, err := NewGenerator("http://127.0.0.1:1", server.URL).New("/rows").
		Query(Parameter{"select": "id", "limit": "1"}).
		GET(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	rows, ok := resp.Body.(Array)
	require.True(t, ok)
	require.Len(t, rows, 1)
}

func Test_defaultClient_AllEndpointsFailed(t *testing.T) {
	_, err := NewGenerator("http://127.0.0.1:1").New("/x").GET(context.Background())
	require.ErrorIs(t, err, ErrAllEndpointsFailed)
}

func Test_Response_ErrorMessage(t *testing.T) {
	resp := &Response{Code: 400, Body: JSON{"msg": "bad"}}
	require.Equal(t, "bad", resp.ErrorMessage())

	resp = &Response{Code: 500, Body: JSON{}}
	require.Equal(t, "Internal Server Error", resp.ErrorMessage())
}

func TestParameter_Encode(t *testing.T) {
	p := Parameter{"select": "id", "order": "timestamp.desc", "name": "a b"}
	require.Equal(t, "name=a%20b&order=timestamp.desc&select=id", p.Encode())
}
