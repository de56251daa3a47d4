// Package prompt turns a subject and a set of options into the instruction
// sent to the text model, together with the response schema and the section
// vocabulary needed to parse the answer.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/sections"
)

const ConciseLimit = 1900

var (
	ErrEmptySubject       = errors.New("subject is empty")
	ErrEmptyFeedback      = errors.New("feedback is empty")
	ErrUnknownFramework   = errors.New("unknown framework")
	ErrUnknownCameraShot  = errors.New("unknown camera shot")
	ErrUnknownAudioMood   = errors.New("unknown audio mood")
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
	ErrUnknownOutputType  = errors.New("unknown output type")
	ErrUnknownField       = errors.New("unknown field")
)

type Request struct {
	Framework      framework.ID
	Subject        string
	Fields         map[string]string
	OutputType     string // "" uses the framework medium
	AspectRatio    string
	Concise        bool
	CoPilot        bool
	StyleReference bool
	AudioMood      string
	CameraShots    []string
}

// Instruction is everything needed to call the model once and to parse what
// comes back.
type Instruction struct {
	Framework     framework.ID
	Text          string
	Schema        *gemini.Schema
	Mode          sections.Mode
	Titles        []string
	FallbackTitle string
	Concise       bool
	CoPilot       bool
	Temperature   float64
	TopP          float64
}

// Sections parses a raw model answer the way this instruction expects it.
func (in Instruction) Sections(raw string) []sections.Section {
	switch {
	case raw == "":
		return nil
	case in.Concise:
		return []sections.Section{{Title: in.FallbackTitle, Content: raw}}
	case in.CoPilot:
		if out, ok := sections.ParseCoPilot(raw); ok {
			return out.Sections()
		}
		return sections.ParseJSON(raw)
	}
	return sections.Parse(raw, in.Mode, in.Titles)
}

func Build(req Request) (Instruction, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return Instruction{}, ErrEmptySubject
	}

	fw, ok := framework.Lookup(string(req.Framework))
	if !ok {
		return Instruction{}, fmt.Errorf("%w: %q", ErrUnknownFramework, req.Framework)
	}

	enrich, err := enrichments(fw, req)
	if err != nil {
		return Instruction{}, err
	}

	in := Instruction{
		Framework:   fw.ID,
		Mode:        fw.Mode,
		Temperature: fw.Temperature,
		TopP:        fw.TopP,
	}

	var b strings.Builder
	b.Grow(4096)
	b.WriteString(fw.Role + "\n")

	switch {
	case req.CoPilot:
		in.CoPilot = true
		in.Mode = sections.ModeJSON
		in.Schema = coPilotSchema()
		in.FallbackTitle = sections.FallbackContentTitle
		writeCoPilot(&b, fw)
	case req.Concise:
		in.Concise = true
		in.Mode = sections.ModeText
		in.FallbackTitle = fw.ConciseTitle()
		writeConcise(&b, fw)
	case fw.Mode == sections.ModeJSON:
		in.Titles = titlesForKeys(fw.Keys())
		in.Schema = keySchema(fw.Layers())
		in.FallbackTitle = sections.FallbackContentTitle
		writeJSONFramework(&b, fw)
	default:
		in.Titles = fw.Titles()
		in.FallbackTitle = sections.FallbackPromptTitle
		writeTextFramework(&b, fw)
	}

	b.WriteString("\n---\n\n")
	if len(enrich) > 0 {
		b.WriteString("ADDITIONAL DIRECTION:\n")
		for _, line := range enrich {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Now, generate a full %s prompt for the following subject. Be creative, detailed, and evocative.\n\n", fw.Name)
	fmt.Fprintf(&b, "**Subject:** %q\n", subject)

	in.Text = strings.TrimSpace(b.String())
	return in, nil
}

// BuildRefine asks the model to revise a previous answer. The returned
// instruction keeps the format, schema and vocabulary of prev.
func BuildRefine(prev Instruction, previous, feedback string) (Instruction, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return Instruction{}, ErrEmptyFeedback
	}
	if strings.TrimSpace(previous) == "" {
		return Instruction{}, ErrEmptySubject
	}

	fw, ok := framework.Lookup(string(prev.Framework))
	if !ok {
		return Instruction{}, fmt.Errorf("%w: %q", ErrUnknownFramework, prev.Framework)
	}

	var b strings.Builder
	b.WriteString(fw.Role + "\n")
	b.WriteString("Revise the prompt below according to the feedback. Keep every part the feedback does not touch.\n")
	switch {
	case prev.CoPilot || prev.Mode == sections.ModeJSON:
		b.WriteString("Return the same JSON object shape with the same keys in the same order. Output JSON only.\n")
	case prev.Concise:
		fmt.Fprintf(&b, "Return one single flowing paragraph of at most %d characters. No headings.\n", ConciseLimit)
	default:
		b.WriteString("Keep the exact same layer format, one layer per line:\nFRAMEWORK LAYER: [content]\n")
	}
	b.WriteString("\nPREVIOUS PROMPT:\n")
	b.WriteString(strings.TrimSpace(previous) + "\n")
	b.WriteString("\nFEEDBACK:\n")
	b.WriteString(feedback + "\n")

	out := prev
	out.Text = strings.TrimSpace(b.String())
	out.Titles = append([]string(nil), prev.Titles...)
	return out, nil
}

// BuildStoryboardFrame is the image prompt for one storyboard panel.
func BuildStoryboardFrame(panel sections.Section, styleGuide, aspectRatio string) string {
	var b strings.Builder
	b.WriteString("Storyboard panel, " + strings.ToLower(panel.Title) + ".\n")
	if guide := strings.TrimSpace(styleGuide); guide != "" {
		b.WriteString("Style guide (apply strictly, identical across panels): " + guide + "\n")
	}
	b.WriteString("Scene: " + strings.TrimSpace(panel.Content) + "\n")
	if ar := NormalizeAspectRatio(aspectRatio); ar != "" {
		b.WriteString("Aspect ratio: " + ar + ".\n")
	}
	b.WriteString("No captions, no panel borders, no text overlays.")
	return b.String()
}

func enrichments(fw framework.Framework, req Request) ([]string, error) {
	var out []string

	outputType := strings.ToLower(strings.TrimSpace(req.OutputType))
	switch framework.Medium(outputType) {
	case "":
	case framework.MediumVideo, framework.MediumAnimation, framework.MediumImage:
		if framework.Medium(outputType) != fw.Medium {
			out = append(out, "Target output: "+outputType+". Adapt every layer to that medium.")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, req.OutputType)
	}

	if req.AspectRatio != "" {
		ar := NormalizeAspectRatio(req.AspectRatio)
		if ar == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAspectRatio, req.AspectRatio)
		}
		out = append(out, "Aspect ratio: "+ar+".")
	}

	if len(req.CameraShots) > 0 {
		names := make([]string, 0, len(req.CameraShots))
		for _, key := range req.CameraShots {
			name, ok := cameraShotName(key)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownCameraShot, key)
			}
			names = append(names, name)
		}
		out = append(out, "Use these camera shots: "+strings.Join(uniq(names), ", ")+".")
	}

	if req.AudioMood != "" {
		name, ok := audioMoodName(req.AudioMood)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAudioMood, req.AudioMood)
		}
		out = append(out, "Audio mood: "+name+".")
	}

	if req.StyleReference {
		out = append(out,
			"STYLE REFERENCE: an image is attached. Transfer its palette, lighting, texture and overall aesthetic into the prompt.",
			"Do not describe the reference image's content; use it for style only.",
		)
	}

	if len(req.Fields) > 0 {
		for _, layer := range fw.Layers() {
			value := strings.TrimSpace(req.Fields[layer.Key])
			if value == "" {
				continue
			}
			out = append(out, layer.Title+" must build on: "+value)
		}
		for key := range req.Fields {
			if !hasLayer(fw, key) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
			}
		}
	}

	return out, nil
}

func writeTextFramework(b *strings.Builder, fw framework.Framework) {
	fmt.Fprintf(b, "Your task is to take a simple subject and expand it into a detailed, high-quality %s prompt using the %s framework.\n", fw.Medium, fw.Name)
	if acronym := fw.Acronym(); acronym != "" {
		fmt.Fprintf(b, "Ensure you generate content for every single core layer of the framework (%s).", acronym)
	} else {
		b.WriteString("Ensure you generate content for every single core layer of the framework.")
	}
	mods := fw.Modifiers()
	if mods.Title != "" {
		fmt.Fprintf(b, " Also include at least one of the %s.", strings.ToLower(mods.Title))
	}
	b.WriteString("\n")
	b.WriteString("The output should be a single block of text, with each framework layer on a new line, formatted exactly like this:\n")
	b.WriteString("FRAMEWORK LAYER: [Generated content for the layer]\n\n")

	fmt.Fprintf(b, "**THE %s FRAMEWORK:**\n\n", fw.Name)
	for _, layer := range fw.Layers() {
		if layer.Letter != "" {
			fmt.Fprintf(b, "*   **%s - %s:** %s\n", layer.Letter, layer.Title, layer.Guidance)
		} else {
			fmt.Fprintf(b, "*   **%s:** %s\n", layer.Title, layer.Guidance)
		}
	}
	if mods.Title != "" {
		fmt.Fprintf(b, "\n**%s:**\n", mods.Title)
		for _, m := range mods.Modifiers {
			fmt.Fprintf(b, "*   **%s (%s):** %s\n", m.Title, m.Letter, m.Guidance)
		}
	}
}

func writeJSONFramework(b *strings.Builder, fw framework.Framework) {
	fmt.Fprintf(b, "Your task is to take a simple subject and expand it into a detailed, high-quality %s prompt using the %s framework.\n", fw.Medium, fw.Name)
	b.WriteString("Return a single JSON object and nothing else. Use exactly these keys, in this order, each with a string value:\n\n")
	for _, layer := range fw.Layers() {
		fmt.Fprintf(b, "- %s: %s\n", layer.Key, layer.Guidance)
	}
}

func writeConcise(b *strings.Builder, fw framework.Framework) {
	fmt.Fprintf(b, "Your task is to take a simple subject and write one concise, high-quality %s prompt in the spirit of the %s framework.\n", fw.Medium, fw.Name)
	fmt.Fprintf(b, "Return a single flowing paragraph of at most %d characters. No headings, no lists, no JSON.\n", ConciseLimit)
	b.WriteString("Cover, in this order:\n")
	for _, layer := range fw.Layers() {
		b.WriteString("- " + layer.Title + "\n")
	}
}

func writeCoPilot(b *strings.Builder, fw framework.Framework) {
	fmt.Fprintf(b, "AI CO-PILOT MODE. Using the %s framework, write the best possible %s prompt for the subject.\n", fw.Name, fw.Medium)
	b.WriteString("Choose the camera shots yourself from this list and explain why:\n")
	for _, opt := range CameraShots() {
		b.WriteString("- " + opt.Key + " (" + opt.Name + ")\n")
	}
	b.WriteString("Then analyse what the generator could get wrong and list negative prompts for it.\n")
	b.WriteString("Return JSON only, matching the schema: aiCoPilotEnabled (true), framework, originalPrompt (the subject), outputPrompt, cameraSettings {selected_shots, rationale}, negative_prompt_analysis {rationale, negative_prompts}, error (null unless the subject cannot be handled).\n")
}

func keySchema(layers []framework.Layer) *gemini.Schema {
	s := &gemini.Schema{
		Type:       gemini.TypeObject,
		Properties: make(map[string]*gemini.Schema, len(layers)),
	}
	for _, layer := range layers {
		s.Properties[layer.Key] = &gemini.Schema{Type: gemini.TypeString, Description: layer.Guidance}
		s.Required = append(s.Required, layer.Key)
		s.PropertyOrdering = append(s.PropertyOrdering, layer.Key)
	}
	return s
}

func coPilotSchema() *gemini.Schema {
	str := func(desc string) *gemini.Schema { return &gemini.Schema{Type: gemini.TypeString, Description: desc} }
	strList := func(desc string) *gemini.Schema {
		return &gemini.Schema{Type: gemini.TypeArray, Description: desc, Items: &gemini.Schema{Type: gemini.TypeString}}
	}

	return &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			"aiCoPilotEnabled": {Type: gemini.TypeBoolean},
			"framework":        str("Framework name."),
			"originalPrompt":   str("The subject as given."),
			"outputPrompt":     str("The finished prompt."),
			"cameraSettings": {
				Type: gemini.TypeObject,
				Properties: map[string]*gemini.Schema{
					"selected_shots": strList("Camera shot keys chosen from the list."),
					"rationale":      str("Why these shots."),
				},
				Required:         []string{"selected_shots", "rationale"},
				PropertyOrdering: []string{"selected_shots", "rationale"},
			},
			"negative_prompt_analysis": {
				Type: gemini.TypeObject,
				Properties: map[string]*gemini.Schema{
					"rationale":        str("What could go wrong."),
					"negative_prompts": strList("Elements to avoid."),
				},
				Required:         []string{"rationale", "negative_prompts"},
				PropertyOrdering: []string{"rationale", "negative_prompts"},
			},
			"error": {Type: gemini.TypeString, Nullable: true},
		},
		Required: []string{"aiCoPilotEnabled", "framework", "originalPrompt", "outputPrompt", "cameraSettings", "negative_prompt_analysis"},
		PropertyOrdering: []string{
			"aiCoPilotEnabled", "framework", "originalPrompt", "outputPrompt",
			"cameraSettings", "negative_prompt_analysis", "error",
		},
	}
}

func titlesForKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, sections.KeyTitle(k))
	}
	return out
}

func hasLayer(fw framework.Framework, key string) bool {
	for _, layer := range fw.Layers() {
		if layer.Key == key {
			return true
		}
	}
	return false
}

func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
