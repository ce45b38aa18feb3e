package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"product-transactions/internal/logger"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

type Config struct {
	AppName      string
	Environment  string
	Exporter     string
	OtelRPCURI   string
	PyroscopeURI string
	// Output receives spans for the stdout exporter; os.Stdout when nil.
	Output io.Writer
}

var pyroLogrus = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}()

// Init installs propagators, the tracer provider and the profiler. The returned
// function flushes and stops them and is safe to call when nothing was started.
func Init(ctx context.Context, cfg Config) (func(context.Context), error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	var shutdowns []func(context.Context) error

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(cfg.AppName),
				attribute.String("env", cfg.Environment),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("create resource: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
		// spans carry pyroscope profile ids when profiling is on
		otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp))
		shutdowns = append(shutdowns, tp.Shutdown)
		logger.Info(ctx, "OpenTelemetry Tracer initialized", slog.String("exporter", cfg.Exporter))
	}

	if cfg.PyroscopeURI != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: cfg.AppName,
			ServerAddress:   cfg.PyroscopeURI,
			Logger:          pyroLogrus,
			Tags:            map[string]string{"env": cfg.Environment},
		})
		if err != nil {
			logger.Error(ctx, "Pyroscope failed to start", slog.String("error", err.Error()))
		} else {
			logger.Info(ctx, "Pyroscope started successfully")
			shutdowns = append(shutdowns, func(context.Context) error { return profiler.Stop() })
		}
	}

	return func(ctx context.Context) {
		for _, shutdown := range shutdowns {
			if err := shutdown(ctx); err != nil {
				logger.Error(ctx, "Error shutting down telemetry", slog.String("error", err.Error()))
			}
		}
	}, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterNone, "":
		return nil, nil
	case ExporterStdout:
		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		return exp, nil
	case ExporterOTLP:
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(cfg.OtelRPCURI),
			otlptracegrpc.WithCompressor("gzip"),
			otlptracegrpc.WithDialOption(grpc.WithUserAgent(cfg.AppName)),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
}
