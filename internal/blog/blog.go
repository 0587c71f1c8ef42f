package blog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Blog is a post as served by the backend.
type Blog struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Category    []string  `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
	CoverImage  string    `json:"coverImage" yaml:"coverImage"`
	Content     string    `json:"content" yaml:"content"`
	Date        Timestamp `json:"date" yaml:"date"`
}

// UnmarshalJSON accepts the id as either a JSON string or a number.
func (b *Blog) UnmarshalJSON(data []byte) error {
	type plain Blog
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("blog id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("blog id: %w", err)
	}
	return n.String(), nil
}

// Draft is the creation payload. It never carries an id; the backend assigns one.
type Draft struct {
	Title       string    `json:"title" validate:"required"`
	Category    []string  `json:"category" validate:"min=1,dive,required"`
	Description string    `json:"description" validate:"required"`
	CoverImage  string    `json:"coverImage" validate:"required"`
	Content     string    `json:"content" validate:"required"`
	Date        Timestamp `json:"date"`
}

// NewDraft builds a draft from raw form input. categories is comma separated.
func NewDraft(title, categories, description, coverImage, content string, now time.Time) Draft {
	return Draft{
		Title:       strings.TrimSpace(title),
		Category:    ParseCategories(categories),
		Description: strings.TrimSpace(description),
		CoverImage:  strings.TrimSpace(coverImage),
		Content:     strings.TrimRight(content, " \t\r\n"),
		Date:        Timestamp{Time: now.UTC()},
	}
}

// ParseCategories splits comma separated labels, trimming each and dropping empties.
func ParseCategories(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// isoLayout matches JavaScript's Date.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is an ISO-8601 instant. It accepts RFC 3339 and bare dates on
// input and always encodes as UTC with millisecond precision.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses the formats the backend is known to hand back.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("parse timestamp %q", s)
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}
