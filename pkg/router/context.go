package router

import (
	"context"
	"net/http"
)

// requestContext is cancelled with the request and carries the values of
// both the request and the server context.
type requestContext struct {
	context.Context

	server context.Context
}

func newRequestContext(server context.Context, req *http.Request) context.Context {
	return requestContext{Context: req.Context(), server: server}
}

func (ctx requestContext) Value(key any) any {
	if value := ctx.Context.Value(key); value != nil {
		return value
	}

	return ctx.server.Value(key)
}
