// Package framework holds the fixed prompt frameworks. Each framework owns an
// ordered vocabulary: section titles for text responses, object keys for JSON
// responses.
package framework

import (
	"strings"

	"prompt-studio/internal/sections"
)

type ID string

const (
	Cinematic      ID = "cinematic"
	Articulated    ID = "articulated"
	Photoreal      ID = "photoreal"
	Myth           ID = "myth"
	Transformation ID = "transformation"
	Motion         ID = "motion"
	Action         ID = "action"
	Storyboard     ID = "storyboard"
	Character      ID = "character"
	LogoReveal     ID = "logo_reveal"
)

type Medium string

const (
	MediumVideo     Medium = "video"
	MediumAnimation Medium = "animation"
	MediumImage     Medium = "image"
)

type Layer struct {
	Key      string
	Title    string
	Letter   string
	Guidance string
}

type ModifierGroup struct {
	Title     string
	Modifiers []Layer
}

type Framework struct {
	ID          ID
	Name        string
	Medium      Medium
	Mode        sections.Mode
	Role        string
	Summary     string
	Temperature float64
	TopP        float64

	layers    []Layer
	modifiers ModifierGroup
}

type NamedOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func (f Framework) Layers() []Layer {
	return append([]Layer(nil), f.layers...)
}

func (f Framework) Modifiers() ModifierGroup {
	return ModifierGroup{
		Title:     f.modifiers.Title,
		Modifiers: append([]Layer(nil), f.modifiers.Modifiers...),
	}
}

// Titles is the text-mode vocabulary: every layer title, then the modifier
// group header and its modifiers.
func (f Framework) Titles() []string {
	out := make([]string, 0, len(f.layers)+len(f.modifiers.Modifiers)+1)
	for _, l := range f.layers {
		out = append(out, l.Title)
	}
	if f.modifiers.Title != "" {
		out = append(out, f.modifiers.Title)
	}
	for _, m := range f.modifiers.Modifiers {
		out = append(out, m.Title)
	}
	return out
}

// Keys is the JSON-mode vocabulary in schema order.
func (f Framework) Keys() []string {
	out := make([]string, 0, len(f.layers))
	for _, l := range f.layers {
		out = append(out, l.Key)
	}
	return out
}

// Acronym spells the layer letters, e.g. C-I-N-E-M-A-T-I-C.
func (f Framework) Acronym() string {
	letters := make([]string, 0, len(f.layers))
	for _, l := range f.layers {
		if l.Letter != "" {
			letters = append(letters, l.Letter)
		}
	}
	return strings.Join(letters, "-")
}

// ConciseTitle is the single section title used for concise results.
func (f Framework) ConciseTitle() string {
	return "CONCISE " + strings.ToUpper(f.Name) + " PROMPT (1900 CHARACTERS)"
}

func All() []Framework {
	out := make([]Framework, 0, len(order))
	for _, id := range order {
		out = append(out, catalog[id])
	}
	return out
}

func Lookup(id string) (Framework, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	fw, ok := catalog[ID(key)]
	return fw, ok
}

func MustLookup(id ID) Framework {
	fw, ok := catalog[id]
	if !ok {
		panic("framework: unknown id " + string(id))
	}
	return fw
}

func Catalog() []NamedOption {
	out := make([]NamedOption, 0, len(order))
	for _, id := range order {
		out = append(out, NamedOption{Key: string(id), Name: catalog[id].Name})
	}
	return out
}
