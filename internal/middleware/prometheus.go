package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecohabit/backend/internal/common"
	"github.com/ecohabit/backend/pkg/errorx"
	"github.com/ecohabit/backend/pkg/router"
	"github.com/ecohabit/backend/pkg/xcontext"
)

// Prometheus labels requests with the method and the error code of the
// response, 0 on success and -1 for unexpected errors. Paths are left out
// to keep the cardinality bounded.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		code := StatusCode(ctx)
		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(req.Method, fmt.Sprint(code)).Inc()

		if startTime := xcontext.StartTime(ctx); !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(req.Method, fmt.Sprint(code)).
				Observe(time.Since(startTime).Seconds())
		}
	}
}

func StatusCode(ctx context.Context) int64 {
	err := xcontext.Error(ctx)
	if err == nil {
		return 0
	}

	var errx errorx.Error
	if errors.As(err, &errx) {
		return int64(errx.Code)
	}

	return -1
}
