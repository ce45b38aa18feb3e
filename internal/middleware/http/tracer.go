package middleware_http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	handler "product-transactions/internal/handler/http"
	"product-transactions/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

const tracerName = "HttpMiddleware"

// ResponseWriter captures status, size and up to logger.MaxBodyLogged bytes of body.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
	buf         bytes.Buffer
}

func (rw *ResponseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	if room := logger.MaxBodyLogged - rw.buf.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.buf.Write(b[:room])
	}
	return n, err
}

func (rw *ResponseWriter) StatusCode() int {
	return rw.statusCode
}

// TraceMiddleware continues or starts a trace per request, exposes the trace id in
// X-Trace-ID, logs request and response, and turns a handler panic into the
// generic error envelope.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := otel.Tracer(tracerName).Start(ctx, r.Method+" "+r.URL.Path)
		defer span.End()
		r = r.WithContext(ctx)

		logger.Info(ctx, "HTTP", logger.LogHTTPRequest(r, "incoming::request")...)

		rw := &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if sc := span.SpanContext(); sc.IsValid() {
			rw.Header().Set("X-Trace-ID", sc.TraceID().String())
		}
		start := time.Now()

		defer func() {
			rec := recover()
			panicked := rec != nil
			if panicked {
				err := errFromRecover(rec)
				span.RecordError(err)
				span.SetStatus(codes.Error, "panic occurred")
				logger.Error(ctx, "Handler panic", slog.String("error", err.Error()))
				if !rw.wroteHeader {
					handler.WriteError(rw, http.StatusInternalServerError, handler.MsgInternalError)
				}
			}

			span.SetAttributes(attribute.Int("http.status_code", rw.statusCode))
			switch {
			case panicked:
			case rw.statusCode >= 500:
				span.SetStatus(codes.Error, "internal server error")
			case rw.statusCode >= 400:
				span.SetStatus(codes.Error, "client error")
			default:
				span.SetStatus(codes.Ok, "")
			}

			attrs := logger.LogHTTPResponse(r, rw.Header(), rw.statusCode, rw.buf.Bytes(), time.Since(start), "incoming::response")
			logger.Info(ctx, "HTTP", attrs...)
		}()

		next.ServeHTTP(rw, r)
	})
}

func errFromRecover(rec interface{}) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", rec)
}
