package prompt

import (
	"strings"

	"prompt-studio/internal/framework"
)

// ParseArgs reads option tokens out of free text typed into the bot or the
// CLI. Recognised tokens override defaults; everything else becomes the
// subject. A framework name is only recognised as the first token or as
// fw=<name>, so a subject like "action hero" keeps its words.
func ParseArgs(raw string, defaults Request) Request {
	req := defaults
	req.CameraShots = append([]string(nil), defaults.CameraShots...)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return req
	}

	var subject []string
	for i, tok := range strings.Fields(raw) {
		orig := tok
		tok = strings.ToLower(tok)

		switch tok {
		case "concise":
			req.Concise = true
			continue
		case "noconcise":
			req.Concise = false
			continue
		case "copilot", "co-pilot":
			req.CoPilot = true
			continue
		case "nocopilot":
			req.CoPilot = false
			continue
		}

		if i == 0 {
			if fw, ok := framework.Lookup(tok); ok {
				req.Framework = fw.ID
				continue
			}
		}

		if key, value, ok := strings.Cut(tok, "="); ok {
			switch key {
			case "fw", "framework":
				if fw, ok := framework.Lookup(value); ok {
					req.Framework = fw.ID
					continue
				}
			case "ar", "aspect":
				if ar := NormalizeAspectRatio(value); ar != "" {
					req.AspectRatio = ar
					continue
				}
			case "shot", "shots":
				if shots, ok := parseShots(value); ok {
					req.CameraShots = appendUnique(req.CameraShots, shots...)
					continue
				}
			case "mood", "audio":
				if _, ok := audioMoodName(value); ok {
					req.AudioMood = normalizeKey(value)
					continue
				}
			case "type", "output":
				switch framework.Medium(value) {
				case framework.MediumVideo, framework.MediumAnimation, framework.MediumImage:
					req.OutputType = value
					continue
				}
			}
		}

		if ar := NormalizeAspectRatio(tok); ar != "" {
			req.AspectRatio = ar
			continue
		}

		subject = append(subject, orig)
	}

	if len(subject) > 0 {
		req.Subject = strings.Join(subject, " ")
	}
	return req
}

func parseShots(value string) ([]string, bool) {
	var out []string
	for _, part := range strings.Split(value, ",") {
		key := normalizeKey(part)
		if key == "" {
			continue
		}
		if _, ok := cameraShots[key]; !ok {
			return nil, false
		}
		out = append(out, key)
	}
	return out, len(out) > 0
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range list {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
