package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"prompt-studio/internal/framework"
)

type NamedOption = framework.NamedOption

var cameraShots = map[string]string{
	"extreme_wide":      "Extreme Wide Shot",
	"wide":              "Wide Shot",
	"full":              "Full Shot",
	"medium":            "Medium Shot",
	"medium_close_up":   "Medium Close-Up",
	"close_up":          "Close-Up",
	"extreme_close_up":  "Extreme Close-Up",
	"over_the_shoulder": "Over-the-Shoulder",
	"pov":               "Point of View",
	"low_angle":         "Low Angle",
	"high_angle":        "High Angle",
	"dutch_angle":       "Dutch Angle",
	"birds_eye":         "Bird's-Eye View",
	"tracking":          "Tracking Shot",
	"dolly_zoom":        "Dolly Zoom",
	"crane":             "Crane Shot",
	"handheld":          "Handheld",
	"drone_aerial":      "Drone Aerial",
	"orbit":             "Orbit",
	"whip_pan":          "Whip Pan",
}

var cameraShotOrder = []string{
	"extreme_wide", "wide", "full", "medium", "medium_close_up", "close_up", "extreme_close_up",
	"over_the_shoulder", "pov", "low_angle", "high_angle", "dutch_angle", "birds_eye",
	"tracking", "dolly_zoom", "crane", "handheld", "drone_aerial", "orbit", "whip_pan",
}

var audioMoods = map[string]string{
	"epic_orchestral":   "Epic Orchestral",
	"ambient_drone":     "Ambient Drone",
	"tense_suspense":    "Tense Suspense",
	"uplifting":         "Uplifting",
	"melancholic_piano": "Melancholic Piano",
	"synthwave":         "Synthwave",
	"tribal_percussion": "Tribal Percussion",
	"ethereal_choir":    "Ethereal Choir",
	"natural_ambience":  "Natural Ambience",
}

var audioMoodOrder = []string{
	"epic_orchestral", "ambient_drone", "tense_suspense", "uplifting", "melancholic_piano",
	"synthwave", "tribal_percussion", "ethereal_choir", "natural_ambience",
}

var aspectRatios = []NamedOption{
	{Key: "16:9", Name: "Landscape (16:9)"},
	{Key: "9:16", Name: "Portrait (9:16)"},
	{Key: "1:1", Name: "Square (1:1)"},
	{Key: "4:3", Name: "Classic (4:3)"},
	{Key: "3:4", Name: "Tall (3:4)"},
}

func CameraShots() []NamedOption {
	out := make([]NamedOption, 0, len(cameraShotOrder))
	for _, key := range cameraShotOrder {
		out = append(out, NamedOption{Key: key, Name: cameraShots[key]})
	}
	return out
}

func AudioMoods() []NamedOption {
	out := make([]NamedOption, 0, len(audioMoodOrder))
	for _, key := range audioMoodOrder {
		out = append(out, NamedOption{Key: key, Name: audioMoods[key]})
	}
	return out
}

func AspectRatios() []NamedOption {
	return append([]NamedOption(nil), aspectRatios...)
}

// NormalizeAspectRatio returns the canonical "W:H" form of value, or "" when
// value is not one of the supported ratios.
func NormalizeAspectRatio(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || a <= 0 || b <= 0 {
		return ""
	}
	norm := fmt.Sprintf("%d:%d", a, b)
	for _, opt := range aspectRatios {
		if opt.Key == norm {
			return norm
		}
	}
	return ""
}

func normalizeKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "-", "_")
	return strings.ReplaceAll(value, " ", "_")
}

func cameraShotName(key string) (string, bool) {
	name, ok := cameraShots[normalizeKey(key)]
	return name, ok
}

func audioMoodName(key string) (string, bool) {
	name, ok := audioMoods[normalizeKey(key)]
	return name, ok
}
