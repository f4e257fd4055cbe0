// Package service is the validated, instrumented entry point to the
// Mandelbrot engine used by the HTTP server.
package service

//go:generate mockgen -source=mandelbrot_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/deepzoom/internal/logging"
	"github.com/agbru/deepzoom/internal/mandelbrot"
)

// ErrLimitExceeded is returned when a request asks for more work than the
// configured Limits allow.
var ErrLimitExceeded = errors.New("request exceeds configured limits")

var (
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepzoom_evaluations_total",
		Help: "Engine evaluations by operation and outcome",
	}, []string{"operation", "status"})
	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deepzoom_evaluation_duration_seconds",
		Help:    "Wall time of engine evaluations",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"operation"})
)

// Limits bounds the work a single request may ask for. A zero field means
// no limit for that dimension.
type Limits struct {
	MaxIter      int
	MaxTileSize  int
	MaxPrecision int
}

// DefaultLimits are the bounds applied by the server unless configured.
var DefaultLimits = Limits{MaxIter: 100_000, MaxTileSize: 512, MaxPrecision: 32}

// OrbitRequest describes a reference orbit computation.
type OrbitRequest struct {
	Cr, Ci    string
	MaxIter   int
	Precision int
	// Extended also records z² per step.
	Extended bool
}

// Service defines the engine operations exposed to transports.
type Service interface {
	// Iterate returns the escape iteration of c = cr + ci·i.
	//
	// Parameters:
	//   - ctx: Checked before the evaluation starts.
	//   - cr, ci: Decimal coordinates.
	//   - maxIter: Iteration budget.
	//   - precision: Limb count.
	//
	// Returns:
	//   - int: The iteration count in [0, maxIter].
	//   - error: ErrLimitExceeded or an engine error.
	Iterate(ctx context.Context, cr, ci string, maxIter, precision int) (int, error)

	// Tile renders a Size×Size tile of smooth iteration values.
	Tile(ctx context.Context, p mandelbrot.TileParams) ([]float32, error)

	// Orbit computes the reference orbit of a point. Z2Re/Z2Im are nil unless
	// the request is extended.
	Orbit(ctx context.Context, req OrbitRequest) (*mandelbrot.ExtendedOrbit, error)
}

// MandelbrotService implements Service on the in-process engine.
type MandelbrotService struct {
	limits Limits
	logger logging.Logger
}

// Ensure MandelbrotService implements Service interface.
var _ Service = (*MandelbrotService)(nil)

// NewMandelbrotService creates a service enforcing limits. A nil logger
// discards logs.
func NewMandelbrotService(limits Limits, logger logging.Logger) *MandelbrotService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &MandelbrotService{limits: limits, logger: logger}
}

// Limits returns the configured bounds.
func (s *MandelbrotService) Limits() Limits { return s.limits }

func (s *MandelbrotService) check(maxIter, precision, tileSize int) error {
	l := s.limits
	switch {
	case l.MaxIter > 0 && maxIter > l.MaxIter:
		return fmt.Errorf("%w: max iterations %d > %d", ErrLimitExceeded, maxIter, l.MaxIter)
	case l.MaxPrecision > 0 && precision > l.MaxPrecision:
		return fmt.Errorf("%w: precision %d > %d limbs", ErrLimitExceeded, precision, l.MaxPrecision)
	case l.MaxTileSize > 0 && tileSize > l.MaxTileSize:
		return fmt.Errorf("%w: tile size %d > %d", ErrLimitExceeded, tileSize, l.MaxTileSize)
	}
	return nil
}

// observe runs fn inside a span and records metrics and a debug log line.
func (s *MandelbrotService) observe(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(context.Context) error) (err error) {
	ctx, span := otel.Tracer("deepzoom/service").Start(ctx, op)
	defer span.End()
	span.SetAttributes(attrs...)

	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		evaluationsTotal.WithLabelValues(op, status).Inc()
		evaluationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
		s.logger.Debug("evaluation completed",
			logging.String("operation", op),
			logging.String("status", status),
			logging.Duration("duration", elapsed),
		)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Iterate implements Service.
func (s *MandelbrotService) Iterate(ctx context.Context, cr, ci string, maxIter, precision int) (int, error) {
	if err := s.check(maxIter, precision, 0); err != nil {
		return 0, err
	}
	var n int
	err := s.observe(ctx, "iterate", []attribute.KeyValue{
		attribute.String("cr", cr),
		attribute.String("ci", ci),
		attribute.Int("max_iter", maxIter),
		attribute.Int("precision", precision),
	}, func(context.Context) error {
		var err error
		n, err = mandelbrot.Iterate(cr, ci, maxIter, precision)
		return err
	})
	return n, err
}

// Tile implements Service.
func (s *MandelbrotService) Tile(ctx context.Context, p mandelbrot.TileParams) ([]float32, error) {
	if err := s.check(p.MaxIter, p.Precision, p.Size); err != nil {
		return nil, err
	}
	var out []float32
	err := s.observe(ctx, "tile", []attribute.KeyValue{
		attribute.String("center_re", p.CenterRe),
		attribute.String("center_im", p.CenterIm),
		attribute.String("scale", p.Scale),
		attribute.Int("size", p.Size),
		attribute.Int("max_iter", p.MaxIter),
		attribute.Int("precision", p.Precision),
	}, func(ctx context.Context) error {
		var err error
		out, err = mandelbrot.TileContext(ctx, p, nil)
		return err
	})
	return out, err
}

// Orbit implements Service.
func (s *MandelbrotService) Orbit(ctx context.Context, req OrbitRequest) (*mandelbrot.ExtendedOrbit, error) {
	if err := s.check(req.MaxIter, req.Precision, 0); err != nil {
		return nil, err
	}
	var out *mandelbrot.ExtendedOrbit
	err := s.observe(ctx, "orbit", []attribute.KeyValue{
		attribute.String("cr", req.Cr),
		attribute.String("ci", req.Ci),
		attribute.Int("max_iter", req.MaxIter),
		attribute.Int("precision", req.Precision),
		attribute.Bool("extended", req.Extended),
	}, func(context.Context) error {
		if req.Extended {
			o, err := mandelbrot.ReferenceOrbitExtended(req.Cr, req.Ci, req.MaxIter, req.Precision)
			out = o
			return err
		}
		o, err := mandelbrot.ReferenceOrbit(req.Cr, req.Ci, req.MaxIter, req.Precision)
		if err == nil {
			out = &mandelbrot.ExtendedOrbit{Orbit: *o}
		}
		return err
	})
	return out, err
}
