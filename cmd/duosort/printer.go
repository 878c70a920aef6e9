package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/timewinder-dev/duosort/analyze"
	"github.com/timewinder-dev/duosort/lanes"
)

var laneColors = [lanes.NumLanes]color.Color{color.Cyan, color.Magenta}

// printer is a lanes.Display writing one line per printed step. With every > 1 only
// the first step and every n-th step after it are printed.
type printer struct {
	mu    sync.Mutex
	w     io.Writer
	every int
	last  [lanes.NumLanes]lastStep
}

type lastStep struct {
	snapshot  []int
	count     int
	algorithm string
	printed   bool
}

var _ lanes.Display = (*printer)(nil)

func newPrinter(w io.Writer, every int) *printer {
	return &printer{w: w, every: max(every, 1)}
}

func (p *printer) OnStep(lane int, snapshot []int, count int, algorithm, complexity string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last[lane] = lastStep{snapshot: snapshot, count: count, algorithm: algorithm}
	if count == 0 {
		fmt.Fprintf(p.w, "%s %s %s\n", laneTag(lane), color.Bold.Sprint(algorithm), color.Gray.Sprint(complexity))
	}
	if count%p.every == 0 {
		p.line(lane)
	}
}

func (p *printer) line(lane int) {
	l := &p.last[lane]
	fmt.Fprintf(p.w, "%s step %5d  %s\n", laneTag(lane), l.count, formatArray(l.snapshot))
	l.printed = true
}

func (p *printer) OnLaneIdle(lane int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	l := &p.last[lane]
	if l.snapshot == nil {
		return
	}
	if !l.printed {
		p.line(lane)
	}
	fmt.Fprintf(p.w, "%s %s idle after %d mutations\n", laneTag(lane), l.algorithm, l.count)
	p.last[lane] = lastStep{}
}

func (p *printer) OnError(context, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %s\n", color.Red.Sprintf("error in %s:", context), message)
}

func laneTag(lane int) string {
	if lane < 0 || lane >= lanes.NumLanes {
		return fmt.Sprintf("[lane %d]", lane+1)
	}
	return laneColors[lane].Sprintf("[lane %d]", lane+1)
}

func formatArray(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func formatReport(r analyze.Report) string {
	var b strings.Builder
	switch r.Kind {
	case analyze.Invalid:
		b.WriteString(color.Red.Sprint(r.String()))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%v\n", r.Err)
		return b.String()
	case analyze.AnalysisError:
		b.WriteString(color.Yellow.Sprint(r.String()))
		b.WriteString("\n")
	default:
		b.WriteString(color.Bold.Sprint("Estimated complexity: "))
		b.WriteString(color.Green.Sprint(r.Label))
		b.WriteString("\n")
	}
	if r.Function != "" {
		fmt.Fprintf(&b, "%s %s(%s)\n", color.Bold.Sprint("Entry point:"), r.Function, r.Input)
	}
	for _, l := range r.Loops {
		fmt.Fprintf(&b, "  %s depth %d  for %s in %s  %s\n",
			color.Gray.Sprintf("%d:%d", l.Pos.Line, l.Pos.Col), l.Depth, l.Var, l.Range, l.Bound)
	}
	return b.String()
}
