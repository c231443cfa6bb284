// Package report prints a split grid as a text table.
package report

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/divVerent/midisplit/internal/splitter"
)

// Printer formats grids for humans.
type Printer struct {
	w     io.Writer
	p     *message.Printer
	width int
}

// New returns a printer in the user's locale. If w is a terminal, lines are
// truncated to its width.
func New(w io.Writer) *Printer {
	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cols, _, err := term.GetSize(int(f.Fd()))
		if err == nil {
			width = cols
		}
	}
	return NewWith(w, userLanguage(), width)
}

// NewWith returns a printer for a fixed language and width. A width of 0 disables truncation.
func NewWith(w io.Writer, lang language.Tag, width int) *Printer {
	return &Printer{
		w:     w,
		p:     message.NewPrinter(lang),
		width: width,
	}
}

func userLanguage() language.Tag {
	locs, err := locale.GetLocales()
	if err != nil {
		log.Printf("could not detect locales - working without: %v", err)
		return language.English
	}
	for _, loc := range locs {
		lang, err := language.Parse(loc)
		if err != nil {
			continue
		}
		return lang
	}
	return language.English
}

func (pr *Printer) line(s string) error {
	if pr.width > 0 {
		r := []rune(s)
		if len(r) > pr.width {
			s = string(r[:pr.width-1]) + "…"
		}
	}
	_, err := fmt.Fprintln(pr.w, s)
	return err
}

// Print writes a header and one row per group listing the notes per segment,
// followed by the all channels row.
func (pr *Printer) Print(g *splitter.Grid) error {
	err := pr.line(pr.p.Sprintf("%.2f bpm, %d ticks per quarter, %d groups, %d segments",
		g.BPM, g.TimeDivision, len(g.Groups), g.NumSegments()))
	if err != nil {
		return err
	}

	const keyWidth = 6
	cols := make([]string, g.NumSegments())
	for i := range cols {
		cols[i] = strconv.FormatFloat(g.Bar(i), 'f', -1, 64)
	}
	colWidth := 5
	for _, c := range cols {
		colWidth = max(colWidth, len(c)+1)
	}
	row := func(key string, cells []string) error {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%-*s", keyWidth, key)
		for _, c := range cells {
			fmt.Fprintf(&sb, "%*s", colWidth, c)
		}
		return pr.line(sb.String())
	}

	err = row("bar", cols)
	if err != nil {
		return err
	}
	totals := make([]int, g.NumSegments())
	for _, k := range g.Groups {
		counts := make([]string, g.NumSegments())
		for i := range counts {
			notes, err := g.Notes(k, i)
			if err != nil {
				return err
			}
			totals[i] += len(notes)
			counts[i] = pr.count(len(notes))
		}
		err := row(k.String(), counts)
		if err != nil {
			return err
		}
	}
	all := make([]string, len(totals))
	for i, n := range totals {
		all[i] = pr.count(n)
	}
	return row(splitter.AllName, all)
}

func (pr *Printer) count(n int) string {
	if n == 0 {
		return "-"
	}
	return pr.p.Sprintf("%d", n)
}
