package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hxmtool/hxm/pkg/registry"
)

const progressWidth = 30

// newProgressPrinter returns a callback that repaints a single-line
// download bar on stderr. The registry calls it from the transfer loop;
// the final call with downloaded == total finishes the line.
func newProgressPrinter() registry.ProgressFunc {
	return func(name string, downloaded, total int64) {
		if total <= 0 {
			return
		}

		filled := int(downloaded * progressWidth / total)
		if filled > progressWidth {
			filled = progressWidth
		}
		bar := strings.Repeat("=", filled) + strings.Repeat(" ", progressWidth-filled)

		fmt.Fprintf(os.Stderr, "\r%s [%s] %s", name, bar, formatBytes(downloaded))
		if downloaded >= total {
			fmt.Fprint(os.Stderr, "\n")
		}
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
