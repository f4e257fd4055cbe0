package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agbru/deepzoom/internal/logging"
	"github.com/agbru/deepzoom/internal/mandelbrot"
)

func TestServiceInterface(t *testing.T) {
	var _ Service = (*MandelbrotService)(nil)
}

func TestNewMandelbrotServiceNilLogger(t *testing.T) {
	t.Parallel()
	svc := NewMandelbrotService(DefaultLimits, nil)
	if svc.logger == nil {
		t.Fatal("logger should default to a no-op logger")
	}
	if svc.Limits() != DefaultLimits {
		t.Errorf("Limits() = %+v", svc.Limits())
	}
}

func TestIterate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		limits    Limits
		cr, ci    string
		maxIter   int
		precision int
		want      int
		wantErr   error
	}{
		{"origin", DefaultLimits, "0", "0", 100, 4, 100, nil},
		{"escapes", DefaultLimits, "2.5", "0", 100, 2, 1, nil},
		{"iteration limit", Limits{MaxIter: 50}, "0", "0", 51, 2, 0, ErrLimitExceeded},
		{"precision limit", Limits{MaxPrecision: 8}, "0", "0", 10, 9, 0, ErrLimitExceeded},
		{"no limits", Limits{}, "-1", "0", 1000, 40, 1000, nil},
		{"engine error", DefaultLimits, "0", "0", -1, 2, 0, mandelbrot.ErrInvalidArgument},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewMandelbrotService(tc.limits, nil)
			got, err := svc.Iterate(context.Background(), tc.cr, tc.ci, tc.maxIter, tc.precision)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Iterate = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestIterateCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMandelbrotService(DefaultLimits, nil).Iterate(ctx, "0", "0", 10, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestTile(t *testing.T) {
	t.Parallel()
	svc := NewMandelbrotService(Limits{MaxTileSize: 8}, nil)
	p := mandelbrot.TileParams{CenterRe: "-0.5", CenterIm: "0", Scale: "3", Size: 8, MaxIter: 50, Precision: 2}

	got, err := svc.Tile(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	want, err := mandelbrot.Tile(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d = %v, want %v", i, got[i], want[i])
		}
	}

	p.Size = 9
	if _, err := svc.Tile(context.Background(), p); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("oversized tile error = %v", err)
	}
}

func TestOrbit(t *testing.T) {
	t.Parallel()
	svc := NewMandelbrotService(DefaultLimits, nil)

	plain, err := svc.Orbit(context.Background(), OrbitRequest{Cr: "-1", Ci: "0", MaxIter: 50, Precision: 4})
	if err != nil {
		t.Fatal(err)
	}
	if plain.Steps != 50 || plain.EscapeIter != -1 {
		t.Errorf("steps=%d escape=%d, want 50 -1", plain.Steps, plain.EscapeIter)
	}
	if plain.Z2Re != nil || plain.Z2Im != nil {
		t.Error("plain orbit carries z² terms")
	}

	ext, err := svc.Orbit(context.Background(), OrbitRequest{Cr: "-1", Ci: "0", MaxIter: 50, Precision: 4, Extended: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(ext.Z2Re) != 51 || len(ext.Z2Im) != 51 {
		t.Errorf("extended z² lengths = %d/%d, want 51", len(ext.Z2Re), len(ext.Z2Im))
	}

	if _, err := svc.Orbit(context.Background(), OrbitRequest{Cr: "0", Ci: "0", MaxIter: DefaultLimits.MaxIter + 1, Precision: 2}); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("over-limit orbit error = %v", err)
	}
}

func TestServiceLogsCompletion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	svc := NewMandelbrotService(DefaultLimits, logging.NewLogger(&buf, "service"))
	if _, err := svc.Iterate(context.Background(), "0", "0", 5, 2); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"operation":"iterate"`, `"status":"success"`, "evaluation completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %s", out, want)
		}
	}
}
