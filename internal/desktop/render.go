package desktop

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

type LineKind int

const (
	LineUser LineKind = iota
	LineAssistant
	LineSystem
	LineError
)

// Line is one entry of the displayed transcript.
type Line struct {
	Kind LineKind
	At   time.Time
	Text string
}

// Renderer writes transcript lines to a terminal.
type Renderer struct {
	out     io.Writer
	noColor bool
	colors  map[LineKind]*color.Color
	labels  map[LineKind]string
}

func NewRenderer(out io.Writer, noColor bool) *Renderer {
	colors := map[LineKind]*color.Color{
		LineUser:      color.New(color.FgCyan, color.Bold),
		LineAssistant: color.New(color.FgGreen, color.Bold),
		LineSystem:    color.New(color.FgYellow),
		LineError:     color.New(color.FgRed),
	}
	for _, c := range colors {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return &Renderer{
		out:     out,
		noColor: noColor,
		colors:  colors,
		labels: map[LineKind]string{
			LineUser:      "Sen",
			LineAssistant: "TürkGPT",
			LineSystem:    "Sistem",
			LineError:     "Sistem",
		},
	}
}

func (r *Renderer) Render(line Line) {
	label := r.colors[line.Kind].Sprintf("[%s] %s:", line.At.Format("15:04"), r.labels[line.Kind])
	fmt.Fprintf(r.out, "%s %s\n", label, line.Text)
}

// Clear wipes the terminal. Without colors the output is probably not a
// terminal, so a separator is printed instead.
func (r *Renderer) Clear() {
	if r.noColor {
		fmt.Fprintln(r.out, "----")
		return
	}
	fmt.Fprint(r.out, "\033[H\033[2J")
}
