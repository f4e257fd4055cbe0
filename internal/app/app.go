package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/deepzoom/internal/calibration"
	"github.com/agbru/deepzoom/internal/cli"
	"github.com/agbru/deepzoom/internal/config"
	apperrors "github.com/agbru/deepzoom/internal/errors"
	"github.com/agbru/deepzoom/internal/logging"
	"github.com/agbru/deepzoom/internal/orchestration"
	"github.com/agbru/deepzoom/internal/server"
	"github.com/agbru/deepzoom/internal/service"
	"github.com/agbru/deepzoom/internal/ui"
	"github.com/agbru/deepzoom/pkg/models"
)

// ProgramName is used in usage and completion output when args is empty.
const ProgramName = "deepzoom"

// Application is one deepzoom invocation.
type Application struct {
	// Config holds the parsed configuration.
	Config config.AppConfig
	// Service evaluates iterate and orbit requests. The CLI runs it without
	// limits.
	Service service.Service
	// Logger receives structured diagnostics on ErrWriter at info level.
	Logger logging.Logger
	// ErrWriter is the destination of errors (typically os.Stderr).
	ErrWriter io.Writer
}

// New parses args (program name first) and builds the Application.
//
// Returns:
//   - *Application: The application, ready to Run.
//   - error: The configuration error; see IsHelpError for -h.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := ProgramName
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	logger := logging.NewZerologAdapter(zerolog.New(errWriter).Level(zerolog.InfoLevel).
		With().Str("component", ProgramName).Timestamp().Logger())
	return &Application{
		Config:    cfg,
		Service:   service.NewMandelbrotService(service.Limits{}, logger),
		Logger:    logger,
		ErrWriter: errWriter,
	}, nil
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Run dispatches on the configuration: completion script, calibration,
// server, or one of the CLI modes.
//
// Returns:
//   - int: The process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	calibration.AutoCalibrate(a.Config, a.notes(out))

	if a.Config.ServerMode {
		return a.runServer(ctx)
	}
	return a.runCLI(ctx, out)
}

// notes is out unless the output is meant for scripts.
func (a *Application) notes(out io.Writer) io.Writer {
	if a.Config.JSONOutput || a.Config.Quiet {
		return io.Discard
	}
	return out
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, ProgramName, config.FlagNames(), config.Modes); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stop := signalContext(ctx)
	defer stop()
	return calibration.RunCalibration(ctx, out, calibration.Options{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
		Timeout:     a.Config.Timeout,
		Logger:      a.Logger,
	})
}

func (a *Application) runServer(ctx context.Context) int {
	srv := server.NewServer(a.Config, server.WithVersion(Version))
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCLI(ctx context.Context, out io.Writer) int {
	ctx, cancel := runContext(ctx, a.Config.Timeout)
	defer cancel()

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
	}

	switch a.Config.Mode {
	case config.ModeTile:
		return a.runTile(ctx, out)
	case config.ModeOrbit:
		return a.runOrbit(ctx, out)
	case config.ModeMosaic:
		return a.runMosaic(ctx, out)
	default:
		return a.runIterate(ctx, out)
	}
}

func (a *Application) runIterate(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	start := time.Now()
	n, err := a.Service.Iterate(ctx, cfg.Real, cfg.Imag, cfg.MaxIter, cfg.Precision)
	elapsed := time.Since(start)
	if err != nil {
		return apperrors.HandleComputationError(err, elapsed, out, ui.ColorProvider{})
	}
	resp := models.IterateResponse{
		Cr:         cfg.Real,
		Ci:         cfg.Imag,
		MaxIter:    cfg.MaxIter,
		Precision:  cfg.Precision,
		Iterations: n,
		Escaped:    n < cfg.MaxIter,
		Duration:   elapsed.String(),
	}
	return a.present(out, resp, func(w io.Writer) { cli.DisplayIterate(w, resp) })
}

func (a *Application) runOrbit(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	start := time.Now()
	o, err := a.Service.Orbit(ctx, service.OrbitRequest{
		Cr:        cfg.Real,
		Ci:        cfg.Imag,
		MaxIter:   cfg.MaxIter,
		Precision: cfg.Precision,
		Extended:  cfg.Extended,
	})
	elapsed := time.Since(start)
	if err != nil {
		return apperrors.HandleComputationError(err, elapsed, out, ui.ColorProvider{})
	}
	resp := models.NewOrbitResponse(cfg.Real, cfg.Imag, o)
	resp.Duration = elapsed.String()
	return a.present(out, resp, func(w io.Writer) { cli.DisplayOrbit(w, resp) })
}

// runTile renders a one-tile mosaic so that the tile gets the same
// progress display as a mosaic.
func (a *Application) runTile(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	cfg.Mosaic = 1
	m, err := orchestration.ExecuteMosaic(ctx, cfg, a.notes(out))
	if err != nil {
		return apperrors.HandleComputationError(err, 0, out, ui.ColorProvider{})
	}
	tile := m.Tiles[0]
	resp := models.TileResponse{
		TileRequest: models.TileRequest{
			CenterRe:  cfg.Real,
			CenterIm:  cfg.Imag,
			Scale:     cfg.Scale,
			Size:      tile.Params.Size,
			MaxIter:   tile.Params.MaxIter,
			Precision: tile.Params.Precision,
		},
		Values:   tile.Values,
		Duration: tile.Duration.String(),
	}
	return a.present(out, resp, func(w io.Writer) { cli.DisplayTile(w, resp, ui.GetCurrentTheme()) })
}

func (a *Application) runMosaic(ctx context.Context, out io.Writer) int {
	m, err := orchestration.ExecuteMosaic(ctx, a.Config, a.notes(out))
	if err != nil {
		return apperrors.HandleComputationError(err, 0, out, ui.ColorProvider{})
	}
	resp := m.Response()
	return a.present(out, resp, func(w io.Writer) {
		cli.DisplayMosaic(w, resp, m.Stitch(), m.MaxIter, ui.GetCurrentTheme())
	})
}

func (a *Application) present(out io.Writer, doc any, human func(io.Writer)) int {
	err := cli.DisplayResultWithConfig(out, doc, cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		JSON:       a.Config.JSONOutput,
		Quiet:      a.Config.Quiet,
	}, human)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
