package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/deepzoom/internal/bigfixed"
	"github.com/agbru/deepzoom/internal/cli"
	"github.com/agbru/deepzoom/internal/ui"
)

func thresholdLabel(t int) string {
	if t >= bigfixed.MaxLimbs {
		return "Schoolbook"
	}
	return fmt.Sprintf("%d limbs", t)
}

// printCrossovers prints the micro-benchmark table.
func printCrossovers(out io.Writer, crossovers []Crossover, estimate int) {
	fmt.Fprintf(out, "\n--- Micro-benchmark (one Mul + one Sqr, x%d) ---\n", MicroBenchBatch)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sLimbs%s\t%sSchoolbook%s\t%sKaratsuba%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	for _, c := range crossovers {
		mark := ""
		if c.KaratsubaWins() {
			mark = fmt.Sprintf(" %s✓%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s%s\n", c.Limbs, cli.FormatExecutionDuration(c.Schoolbook), cli.FormatExecutionDuration(c.Karatsuba), mark)
	}
	tw.Flush()
	fmt.Fprintf(out, "  Estimated threshold: %s%d limbs%s\n", ui.ColorYellow(), estimate, ui.ColorReset())
}

// printCalibrationResults formats the trial table.
func printCalibrationResults(out io.Writer, results []thresholdResult, best int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sThreshold%s    │ %sExecution Time%s\n", ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			durationStr = cli.FormatExecutionDuration(res.Duration)
		}
		highlight := ""
		if res.Threshold == best && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %s%s%s%s\n", ui.ColorCyan(), thresholdLabel(res.Threshold), ui.ColorReset(), ui.ColorYellow(), durationStr, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

// printCalibrationOutput notes a threshold taken from a profile.
func printCalibrationOutput(out io.Writer, p *Profile) {
	fmt.Fprintf(out, "%sCalibration profile%s: karatsuba=%s%d%s limbs (%s)\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), p.KaratsubaThreshold, ui.ColorReset(),
		p.CalibratedAt.Format("2006-01-02"))
}
