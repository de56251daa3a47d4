package sections

import (
	"encoding/json"
	"strings"
)

// CoPilotOutput is the response shape requested in co-pilot mode, where the
// model picks the camera shots itself and condenses the result into a single
// output prompt.
type CoPilotOutput struct {
	AICoPilotEnabled       bool                   `json:"aiCoPilotEnabled" yaml:"aiCoPilotEnabled"`
	Framework              string                 `json:"framework" yaml:"framework"`
	OriginalPrompt         string                 `json:"originalPrompt" yaml:"originalPrompt"`
	OutputPrompt           string                 `json:"outputPrompt" yaml:"outputPrompt"`
	CameraSettings         CameraSettings         `json:"cameraSettings" yaml:"cameraSettings"`
	NegativePromptAnalysis NegativePromptAnalysis `json:"negative_prompt_analysis" yaml:"negative_prompt_analysis"`
	Error                  *string                `json:"error" yaml:"error"`
}

type CameraSettings struct {
	SelectedShots []string `json:"selected_shots" yaml:"selected_shots"`
	Rationale     string   `json:"rationale" yaml:"rationale"`
}

type NegativePromptAnalysis struct {
	Rationale       string   `json:"rationale" yaml:"rationale"`
	NegativePrompts []string `json:"negative_prompts" yaml:"negative_prompts"`
}

// ParseCoPilot decodes a co-pilot response. It reports false for malformed
// JSON and for objects without a negative_prompt_analysis member.
func ParseCoPilot(raw string) (CoPilotOutput, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CoPilotOutput{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return CoPilotOutput{}, false
	}
	if v, ok := fields["negative_prompt_analysis"]; !ok || string(v) == "null" {
		return CoPilotOutput{}, false
	}

	var out CoPilotOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return CoPilotOutput{}, false
	}
	return out, true
}

// Sections flattens a co-pilot result for display and text export.
func (o CoPilotOutput) Sections() []Section {
	out := []Section{
		{Title: "OUTPUT PROMPT", Content: o.OutputPrompt},
	}
	if len(o.CameraSettings.SelectedShots) > 0 || o.CameraSettings.Rationale != "" {
		content := strings.Join(o.CameraSettings.SelectedShots, ", ")
		if o.CameraSettings.Rationale != "" {
			if content != "" {
				content += "\n"
			}
			content += o.CameraSettings.Rationale
		}
		out = append(out, Section{Title: "CAMERA SETTINGS", Content: content})
	}
	if len(o.NegativePromptAnalysis.NegativePrompts) > 0 {
		out = append(out, Section{
			Title:   "NEGATIVE PROMPTS",
			Content: strings.Join(o.NegativePromptAnalysis.NegativePrompts, ", "),
		})
	}
	if o.NegativePromptAnalysis.Rationale != "" {
		out = append(out, Section{Title: "NEGATIVE PROMPT RATIONALE", Content: o.NegativePromptAnalysis.Rationale})
	}
	return out
}
