package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"plaza/internal/deps"
)

// requireBinaries fails fast with a readable message when an external tool a
// command is about to shell out to is missing.
func requireBinaries(requirements ...deps.Requirement) error {
	for _, status := range deps.CheckBinaries(requirements) {
		if !status.Available && !status.Optional {
			return fmt.Errorf("%s unavailable: %s (%s)", status.Name, status.Detail, status.Description)
		}
	}
	return nil
}

// newJitterRand seeds the jitter source for ad ranking.
func newJitterRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatBytes(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// progressPrinter rewrites a single line while a terminal is attached and
// falls back to plain lines otherwise, so piped output stays readable.
type progressPrinter struct {
	out      io.Writer
	terminal bool
	active   bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, terminal: isTerminal(out)}
}

func (p *progressPrinter) Update(line string) {
	if p.terminal {
		fmt.Fprintf(p.out, "\r\x1b[2K%s", line)
		p.active = true
		return
	}
	fmt.Fprintln(p.out, line)
}

func (p *progressPrinter) Finish() {
	if p.terminal && p.active {
		fmt.Fprintln(p.out)
		p.active = false
	}
}

// ellipsize shortens body to at most max characters, counting runes so
// multibyte text is never cut mid-character.
func ellipsize(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max-3]) + "..."
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
