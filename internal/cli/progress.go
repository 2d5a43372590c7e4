package cli

import (
	"fmt"
	"time"

	"github.com/codectx/codectx/internal/indexcore"
	"github.com/schollz/progressbar/v3"
)

// phaseLabels gives each indexcore.Phase its progress bar description.
var phaseLabels = map[indexcore.Phase]string{
	indexcore.PhaseScanning:  "Scanning files",
	indexcore.PhaseChunking:  "Chunking",
	indexcore.PhaseEmbedding: "Generating embeddings",
	indexcore.PhaseWriting:   "Writing chunks",
}

// CLIProgressReporter renders indexcore.ProgressUpdate callbacks as a
// progress bar, switching bars as the run moves between phases.
type CLIProgressReporter struct {
	quiet bool
	phase indexcore.Phase
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a reporter; in quiet mode it renders nothing.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

// Report implements indexcore.ProgressFunc.
func (c *CLIProgressReporter) Report(u indexcore.ProgressUpdate) {
	if c.quiet {
		return
	}

	if u.Phase != c.phase {
		c.finishBar()
		c.phase = u.Phase
		c.bar = progressbar.NewOptions(u.Total,
			progressbar.OptionSetDescription(phaseLabels[u.Phase]),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}

	if c.bar != nil {
		c.bar.Set(u.Current)
		if u.Current >= u.Total {
			c.finishBar()
		}
	}
}

func (c *CLIProgressReporter) finishBar() {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}

// formatNumber formats an integer with thousand separators, e.g. 1234 -> "1,234".
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}

// formatDuration formats a duration in a human-readable, compact form, e.g.
// "5s", "1m", "1h 30m", "2h", "1d 3h".
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", secs)
}

// formatTimeSince formats a past time as a relative "ago" string, e.g. "5m ago".
func formatTimeSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return formatDuration(time.Since(t)) + " ago"
}
