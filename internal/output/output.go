package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/jask/monkblog/internal/blog"
)

// Format selects how blogs are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Options tune the table rendering.
type Options struct {
	DateFormat string
	Location   *time.Location
}

func (o Options) date(ts blog.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	layout := o.DateFormat
	if layout == "" {
		layout = "02/01/2006"
	}
	return ts.In(loc).Format(layout)
}

// WriteList writes a list of blogs.
func WriteList(w io.Writer, f Format, blogs []blog.Blog, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, blogs)
	case FormatYAML:
		return writeYAML(w, blogs)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Categories", "Date"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, b := range blogs {
		b = b.Sanitized()
		table.Append([]string{b.ID, b.Title, strings.Join(b.Category, ", "), opts.date(b.Date)})
	}
	table.Render()
	_, err := fmt.Fprintf(w, "%d blog(s)\n", len(blogs))
	return err
}

// WriteBlog writes a single blog in full.
func WriteBlog(w io.Writer, f Format, b blog.Blog, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, b)
	case FormatYAML:
		return writeYAML(w, b)
	}
	b = b.Sanitized()
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"ID", b.ID},
		{"Title", b.Title},
		{"Categories", strings.Join(b.Category, ", ")},
		{"Date", opts.date(b.Date)},
		{"Cover", b.CoverImage},
		{"Description", b.Description},
	})
	table.Render()
	_, err := fmt.Fprintf(w, "\n%s\n", b.Content)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
