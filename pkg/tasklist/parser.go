// Package tasklist parses indented checkbox lists out of free text into a
// task tree with progress aggregates.
package tasklist

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Item is one checkbox line. Children are nested by indentation. Items are
// derived values: recomputed whenever the source text changes, never mutated
// in place.
type Item struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Children  []*Item `json:"children,omitempty"`
}

// Progress is the parsed task tree plus its aggregates.
type Progress struct {
	Tasks     []*Item `json:"tasks"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   int     `json:"progress_pct"`
}

// checkboxLine matches "- [ ] text" and "* [x] text" with leading
// indentation. Completion is case-insensitive on the marker character.
var checkboxLine = regexp.MustCompile(`^([ \t]*)[-*] \[([ xX])\] (.*)$`)

// frame is one open parent on the indentation stack.
type frame struct {
	indent int
	item   *Item
}

// Parse processes text line by line, building the tree from indentation with
// a stack of open parents. Lines that are not checkbox lines are skipped
// silently; zero parsed items is a valid, silent result, not an error.
func Parse(text string) Progress {
	var p Progress
	var stack []frame

	seq := 0
	for _, line := range strings.Split(text, "\n") {
		m := checkboxLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		seq++
		indent := indentWidth(m[1])
		item := &Item{
			ID:        fmt.Sprintf("task-%d", seq),
			Text:      strings.TrimSpace(m[3]),
			Completed: strings.EqualFold(m[2], "x"),
		}

		// Pop frames at the same or deeper indentation; what remains is the
		// parent chain for this line.
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			p.Tasks = append(p.Tasks, item)
		} else {
			parent := stack[len(stack)-1].item
			parent.Children = append(parent.Children, item)
		}
		stack = append(stack, frame{indent: indent, item: item})

		p.Total++
		if item.Completed {
			p.Completed++
		}
	}

	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}

	return p
}

// indentWidth counts indentation columns. Tabs count as two columns so mixed
// indentation still nests sensibly.
func indentWidth(indent string) int {
	width := 0
	for _, r := range indent {
		if r == '\t' {
			width += 2
		} else {
			width++
		}
	}
	return width
}
