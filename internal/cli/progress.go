package cli

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ─── Progress Bar ───────────────────────────────────────────────────────────
// Terminal progress bar for remote subtask completion, sized in chunk
// units. Shows: [=========>..........] 3/6 subtasks | 50% | ETA 12s

const barWidth = 30 // Characters for the progress bar

type progressBar struct {
	started time.Time
	total   int
	done    int
}

func newProgressBar(total int) *progressBar {
	p := &progressBar{started: time.Now(), total: total}
	p.render()
	return p
}

// Advance moves the bar forward by n units (clamped to total).
func (p *progressBar) Advance(n int) {
	p.done += n
	if p.done > p.total {
		p.done = p.total
	}
	if p.done < 0 {
		p.done = 0
	}
	p.render()
	if p.done == p.total {
		fmt.Fprintln(os.Stderr)
	}
}

func (p *progressBar) render() {
	if p.total <= 0 {
		return
	}

	pct := float64(p.done) / float64(p.total) * 100

	// Build the bar: [=======>............]
	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	var bar string
	switch {
	case filled == barWidth:
		bar = strings.Repeat("=", filled)
	case filled > 0:
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", barWidth-filled)
	default:
		bar = strings.Repeat(".", barWidth)
	}

	clearLine()
	fmt.Fprintf(os.Stderr, "  [%s] %d/%d subtasks | %3.0f%% | %s",
		bar, p.done, p.total, pct, p.eta())
}

func (p *progressBar) eta() string {
	if p.done <= 0 || p.done >= p.total {
		return "ETA --"
	}

	elapsed := time.Since(p.started).Seconds()
	if elapsed < 1 {
		return "ETA --"
	}

	totalEstimated := elapsed / (float64(p.done) / float64(p.total))
	remaining := totalEstimated - elapsed
	if remaining < 0 {
		remaining = 0
	}

	if remaining < 60 {
		return fmt.Sprintf("ETA %ds", int(remaining))
	}
	if remaining < 3600 {
		return fmt.Sprintf("ETA %dm%ds", int(remaining)/60, int(remaining)%60)
	}
	return fmt.Sprintf("ETA %dh%dm", int(remaining)/3600, (int(remaining)%3600)/60)
}

func clearLine() {
	fmt.Fprintf(os.Stderr, "\r\033[K")
}
