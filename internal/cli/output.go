package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/deepzoom/internal/ui"
	"github.com/agbru/deepzoom/pkg/models"
)

// OutputConfig selects how a result document is presented.
type OutputConfig struct {
	// OutputFile, when set, also receives the document as JSON.
	OutputFile string
	// JSON prints the document as JSON instead of the human view.
	JSON bool
	// Quiet prints FormatQuiet's single line.
	Quiet bool
}

// WriteJSON writes doc as indented JSON followed by a newline.
func WriteJSON(out io.Writer, doc any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// FormatQuiet renders a result document as one line for scripts:
// the iteration count, "steps escape_iter" for orbits, and
// "escaped/pixels" for tiles and mosaics.
func FormatQuiet(doc any) string {
	switch d := doc.(type) {
	case models.IterateResponse:
		return fmt.Sprintf("%d", d.Iterations)
	case models.OrbitResponse:
		return fmt.Sprintf("%d %d", d.Steps, d.EscapeIter)
	case models.TileResponse:
		st := ComputeTileStats(d.Values, d.MaxIter)
		return fmt.Sprintf("%d/%d", st.Escaped, st.Pixels)
	case models.MosaicResponse:
		return fmt.Sprintf("%d/%d", d.Escaped, d.Pixels)
	}
	return fmt.Sprint(doc)
}

// WriteResultToFile writes doc as JSON to path, creating parent
// directories.
func WriteResultToFile(path string, doc any) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteJSON(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}

// DisplayResultWithConfig presents doc per cfg. human renders the default
// view and runs only when neither JSON nor Quiet is set.
//
// Returns:
//   - error: An encoding or file error.
func DisplayResultWithConfig(out io.Writer, doc any, cfg OutputConfig, human func(io.Writer)) error {
	switch {
	case cfg.JSON:
		if err := WriteJSON(out, doc); err != nil {
			return err
		}
	case cfg.Quiet:
		fmt.Fprintln(out, FormatQuiet(doc))
	default:
		human(out)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(cfg.OutputFile, doc); err != nil {
		return err
	}
	if !cfg.Quiet && !cfg.JSON {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}
