package lessons

import (
	"encoding/json"
	"fmt"
)

// lessonDocument matches the accepted wire shapes before normalization.
type lessonDocument struct {
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Parts     []Part     `json:"parts"`
	Questions []Question `json:"questions"`
	Content   *struct {
		Parts     []Part     `json:"parts"`
		Questions []Question `json:"questions"`
	} `json:"content"`
}

// Decode validates and normalizes a single lesson document. A flat
// question list (top-level or under content) becomes one untitled part,
// so the session controller only ever sees parts.
func Decode(raw json.RawMessage) (*Lesson, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc lessonDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode lesson: %w", err)
	}

	parts := doc.Parts
	questions := doc.Questions
	if len(parts) == 0 && len(questions) == 0 && doc.Content != nil {
		parts = doc.Content.Parts
		questions = doc.Content.Questions
	}
	if len(parts) == 0 {
		parts = []Part{{Questions: questions}}
	}

	return &Lesson{Title: doc.Title, Slug: doc.Slug, Parts: parts}, nil
}

// DecodeList decodes a JSON array of lesson documents. Documents that
// fail validation are skipped rather than failing the whole catalog; a
// backend shipping one malformed lesson should not hide the rest.
func DecodeList(raw json.RawMessage) ([]Lesson, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode lesson list: %w", err)
	}

	out := make([]Lesson, 0, len(items))
	for _, item := range items {
		lesson, err := Decode(item)
		if err != nil {
			continue
		}
		out = append(out, *lesson)
	}
	return out, nil
}
