package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dm0114/capacitor-push-prototype/internal/client/feature"
	"github.com/dm0114/capacitor-push-prototype/internal/client/settings"
	"github.com/dm0114/capacitor-push-prototype/internal/client/views"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

const untitled = "Untitled"

func pageLabel(p models.Page) string {
	title := p.Title
	if title == "" {
		title = untitled
	}
	if p.Icon != nil && *p.Icon != "" {
		return *p.Icon + " " + title
	}
	return title
}

func renderTree(w io.Writer, nodes []models.PageTreeNode) {
	if len(nodes) == 0 {
		fmt.Fprintln(w, "No pages yet")
		return
	}
	for _, n := range nodes {
		marker := ""
		if n.IsDatabase {
			marker = " [db]"
		}
		fmt.Fprintf(w, "%s%s%s  (%s)\n", strings.Repeat("  ", n.Depth), pageLabel(n.Page), marker, n.ID)
		renderTree(w, n.Children)
	}
}

// block is the part of an editor block the terminal can show.
type block struct {
	Type     string            `json:"type"`
	Props    blockProps        `json:"props"`
	Content  []inlineText      `json:"content"`
	Children []json.RawMessage `json:"children"`
}

type blockProps struct {
	Level   int  `json:"level"`
	Checked bool `json:"checked"`
}

type inlineText struct {
	Text string `json:"text"`
}

func renderBlocks(w io.Writer, blocks models.Blocks) {
	if len(blocks) == 0 {
		fmt.Fprintln(w, "(empty page)")
		return
	}
	renderBlockList(w, blocks, 0)
}

// renderBlockList prints blocks at one nesting level. Consecutive numbered
// items share a counter that restarts after any other block.
func renderBlockList(w io.Writer, raw []json.RawMessage, depth int) {
	indent := strings.Repeat("  ", depth)
	number := 0
	for _, r := range raw {
		var b block
		if err := json.Unmarshal(r, &b); err != nil {
			number = 0
			fmt.Fprintf(w, "%s[unreadable block]\n", indent)
			continue
		}
		if b.Type == "numberedListItem" {
			number++
		} else {
			number = 0
		}
		var text strings.Builder
		for _, c := range b.Content {
			text.WriteString(c.Text)
		}

		switch b.Type {
		case "heading":
			fmt.Fprintf(w, "%s%s %s\n", indent, strings.Repeat("#", max(b.Props.Level, 1)), text.String())
		case "bulletListItem":
			fmt.Fprintf(w, "%s- %s\n", indent, text.String())
		case "numberedListItem":
			fmt.Fprintf(w, "%s%d. %s\n", indent, number, text.String())
		case "checkListItem":
			box := "[ ]"
			if b.Props.Checked {
				box = "[x]"
			}
			fmt.Fprintf(w, "%s%s %s\n", indent, box, text.String())
		default:
			fmt.Fprintf(w, "%s%s\n", indent, text.String())
		}
		renderBlockList(w, b.Children, depth+1)
	}
}

func renderScreen(w io.Writer, s *feature.Screen) {
	fmt.Fprintf(w, "%s (%s)\n\n", s.Active.Name, s.Active.Type)
	switch {
	case s.Empty != nil:
		fmt.Fprintln(w, s.Empty.Message)
	case s.Board != nil:
		renderBoard(w, s.Properties, s.Board)
	case s.Calendar != nil:
		renderCalendar(w, s.Calendar)
	case s.Table != nil:
		renderTable(w, s.Table)
	}
}

func renderTable(w io.Writer, t *views.Table) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	header := []string{"ID"}
	for _, c := range t.Columns {
		if c.ID != views.ActionsColumnID {
			header = append(header, c.Name)
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range t.Rows {
		cells := []string{r.ID}
		for _, c := range t.Columns {
			if c.ID != views.ActionsColumnID {
				cells = append(cells, formatCell(c, r.Cells[c.ID]))
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
}

func formatCell(c views.Column, v any) string {
	if v == nil {
		return ""
	}
	if c.Editor == views.EditorSelect {
		for _, o := range c.Options {
			if o.ID == v {
				return o.Name
			}
		}
	}
	return fmt.Sprint(v)
}

func renderBoard(w io.Writer, props []models.Property, b *views.Board) {
	titleProp, hasTitle := views.TitleProperty(props)
	for _, c := range b.Columns {
		fmt.Fprintf(w, "%s (%d)  [%s]\n", c.Name, len(c.Rows), c.ID)
		for _, r := range c.Rows {
			title := r.Title
			if hasTitle {
				if v := r.StringValue(titleProp.ID); v != "" {
					title = v
				}
			}
			if title == "" {
				title = untitled
			}
			fmt.Fprintf(w, "  - %s  (%s)\n", title, r.ID)
		}
	}
}

func renderCalendar(w io.Writer, c *views.Calendar) {
	if len(c.Events) == 0 {
		fmt.Fprintln(w, "No dated entries")
		return
	}
	events := append([]views.Event(nil), c.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	for _, e := range events {
		fmt.Fprintf(w, "%s  %s  (%s)\n", e.Start.Format("Mon 2006-01-02"), e.Title, e.ID)
	}
}

func renderReminder(w io.Writer, cfg settings.ReminderConfig) {
	state := "off"
	if cfg.Enabled {
		state = "on"
	}
	fmt.Fprintf(w, "reminder %s at %02d:%02d on %s\n", state, cfg.Hour, cfg.Minute, weekdays(cfg.Days))
	fmt.Fprintf(w, "  %s: %s\n", cfg.Title, cfg.Body)
}

func weekdays(days []int) string {
	if len(days) == 0 {
		return "no days"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, time.Weekday(d).String()[:3])
	}
	return strings.Join(names, ", ")
}
