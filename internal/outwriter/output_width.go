package outwriter

import (
	"os"

	"github.com/huangsam/gitpulse/internal/contract"
	"golang.org/x/term"
)

// Bounds for the path column.
const (
	minPathWidth = 15
	maxPathWidth = 70
)

// getMaxTablePathWidth calculates the maximum width for file paths in a
// table whose other columns take reserved characters.
func getMaxTablePathWidth(cfg *contract.Config, reserved int) int {
	termWidth := terminalWidth(cfg)

	// Borders, separators and padding
	available := termWidth - reserved - 20
	if available < minPathWidth {
		return minPathWidth
	}
	if available > maxPathWidth {
		return maxPathWidth
	}
	return available
}

// terminalWidth honors the --width override and falls back to 80 columns
// when stdout is not a terminal.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}
