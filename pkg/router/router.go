package router

import (
	"context"
	"net/http"
	"time"

	"github.com/ecohabit/backend/pkg/errorx"
	"github.com/ecohabit/backend/pkg/xcontext"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. Returning an error ends the
// request with that error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response was written, whatever the result.
type CloserFunc func(ctx context.Context)

type Router struct {
	ctx     context.Context
	mux     *http.ServeMux
	befores []MiddlewareFunc
	closers *[]CloserFunc
}

// New returns a router whose handlers see the values of ctx, such as the
// configs and the logger.
func New(ctx context.Context) *Router {
	return &Router{ctx: ctx, mux: http.NewServeMux(), closers: &[]CloserFunc{}}
}

// Branch returns a router sharing the routes and the closers, whose
// middlewares only apply to the routes added through it.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		mux:     r.mux,
		befores: slices.Clone(r.befores),
		closers: r.closers,
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	*r.closers = append(*r.closers, closer)
}

// Handle mounts a plain handler, skipping middlewares and the envelope.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	cfg := xcontext.Configs(r.ctx).ApiServer
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(http.MethodGet+" "+pattern, wrapHandler(r, parseQuery[Request], handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(http.MethodPost+" "+pattern, wrapHandler(r, parseBody[Request], handler))
}

func wrapHandler[Request, Response any](
	router *Router,
	parse func(*http.Request, *Request) error,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := newRequestContext(router.ctx, req)
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithStartTime(ctx, time.Now())

		resp, err := func() (*Response, error) {
			for _, before := range router.befores {
				next, err := before(ctx)
				if err != nil {
					return nil, err
				}

				if next != nil {
					ctx = next
				}
			}

			var request Request
			if err := parse(req, &request); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
			}

			return handler(ctx, &request)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeResponse(ctx, w, nil, err)
		} else {
			writeResponse(ctx, w, resp, nil)
		}

		for _, closer := range *router.closers {
			closer(ctx)
		}
	}
}
