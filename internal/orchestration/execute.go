package orchestration

import (
	"context"
	"io"
	"sync"

	"github.com/agbru/deepzoom/internal/cli"
	"github.com/agbru/deepzoom/internal/config"
	"github.com/agbru/deepzoom/internal/mandelbrot"
)

// ProgressBufferMultiplier sizes the progress channel per tile so that slow
// terminals rarely cause dropped updates.
const ProgressBufferMultiplier = 8

// ParamsFromConfig builds the mosaic described by cfg.
func ParamsFromConfig(cfg config.AppConfig) MosaicParams {
	return MosaicParams{
		CenterRe:  cfg.Real,
		CenterIm:  cfg.Imag,
		Scale:     cfg.Scale,
		Side:      cfg.Mosaic,
		TileSize:  cfg.TileSize,
		MaxIter:   cfg.MaxIter,
		Precision: cfg.Precision,
	}
}

// ExecuteMosaic renders the mosaic of cfg while cli.DisplayProgress shows
// the average tile progress on progressOut.
//
// Parameters:
//   - ctx: Cancellation and deadline.
//   - cfg: The application configuration.
//   - progressOut: Destination of the spinner; io.Discard hides it.
//   - observers: Extra progress observers, e.g. a LoggingObserver.
//
// Returns:
//   - *Mosaic: The rendered tiles.
//   - error: As for Render.
func ExecuteMosaic(ctx context.Context, cfg config.AppConfig, progressOut io.Writer, observers ...mandelbrot.ProgressObserver) (*Mosaic, error) {
	p := ParamsFromConfig(cfg)
	tiles := max(p.Side*p.Side, 0)

	progressChan := make(chan mandelbrot.ProgressUpdate, tiles*ProgressBufferMultiplier)
	subject := mandelbrot.NewProgressSubject()
	subject.Register(mandelbrot.NewChannelObserver(progressChan))
	for _, o := range observers {
		subject.Register(o)
	}

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, tiles, progressOut)

	mosaic, err := Render(ctx, p, subject)

	close(progressChan)
	displayWg.Wait()
	return mosaic, err
}
