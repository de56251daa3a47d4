package handlers

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/sections"
	"prompt-studio/internal/studio"
	"prompt-studio/internal/telegram"
)

func helpText() string {
	var b strings.Builder
	b.WriteString("🎬 Prompt Studio\n\n")
	b.WriteString("Send a subject and I will expand it into a structured prompt.\n\n")
	b.WriteString("Commands:\n")
	b.WriteString("/prompt [framework] [ar=16:9] [shot=close_up,pov] [mood=synthwave] <subject>\n")
	b.WriteString("/concise [subject] - one dense prompt under 1900 characters; alone it toggles the mode\n")
	b.WriteString("/copilot [subject] - structured director notes; alone it toggles the mode\n")
	b.WriteString("/refine <feedback> - revise the last prompt\n")
	b.WriteString("/export [text|markdown|json|yaml]\n")
	b.WriteString("/image [ratio] <description> - generate an image\n")
	b.WriteString("/upscale - upscale the next image you send\n")
	b.WriteString("/style [clear] - set a style reference image\n")
	b.WriteString("/storyboard [ratio] - render the panels of the last storyboard\n")
	b.WriteString("/video [ratio] <description> - generate a video\n")
	b.WriteString("/frameworks, /settings - choose framework and options\n")
	b.WriteString("/reset - restore default settings\n\n")
	b.WriteString("Frameworks: ")
	names := make([]string, 0, len(framework.All()))
	for _, fw := range framework.All() {
		names = append(names, string(fw.ID))
	}
	b.WriteString(strings.Join(names, ", "))
	return b.String()
}

// resultText is the chat rendering of a generated prompt.
func resultText(r studio.Result) string {
	name := string(r.Framework)
	if fw, ok := framework.Lookup(string(r.Framework)); ok {
		name = fw.Name
	}

	var header string
	switch {
	case r.CoPilot != nil:
		header = fmt.Sprintf("✅ %s co-pilot notes", name)
	case r.Concise:
		n := 0
		if len(r.Sections) > 0 {
			n = utf8.RuneCountInString(r.Sections[0].Content)
		}
		header = fmt.Sprintf("✅ Concise %s prompt (%d/%d characters)", name, n, prompt.ConciseLimit)
	case r.ParentID != "":
		header = fmt.Sprintf("✅ Refined %s prompt", name)
	default:
		header = fmt.Sprintf("✅ %s prompt", name)
	}

	return header + "\n\n" + sections.JoinText(r.Sections)
}

func asDocument(out string, f sections.Format) bool {
	return f == sections.FormatJSON || f == sections.FormatYAML || len(out) > telegram.MaxMessageBytes
}

func fileExt(f sections.Format) string {
	switch f {
	case sections.FormatMarkdown:
		return "md"
	case sections.FormatJSON:
		return "json"
	case sections.FormatYAML:
		return "yaml"
	}
	return "txt"
}

// splitAspectRatio pulls a leading or trailing ratio ("9:16" or "ar=9:16")
// out of args. The fallback is used when none is given.
func splitAspectRatio(args, fallback string) (string, string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", fallback
	}

	ratio := func(tok string) string {
		tok = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(tok), "ar="), "aspect=")
		return prompt.NormalizeAspectRatio(tok)
	}

	if ar := ratio(fields[0]); ar != "" {
		return strings.Join(fields[1:], " "), ar
	}
	if ar := ratio(fields[len(fields)-1]); ar != "" {
		return strings.Join(fields[:len(fields)-1], " "), ar
	}
	return strings.Join(fields, " "), fallback
}

func panelCaption(p studio.Panel) string {
	return fmt.Sprintf("🎞 %s\n\n%s", p.Title, p.Prompt)
}

func videoStatusText(p studio.VideoProgress) string {
	elapsed := p.Elapsed.Round(time.Second)
	switch {
	case p.Done && p.Error != "":
		return "❌ Video generation failed: " + p.Error
	case p.Done:
		return fmt.Sprintf("✅ Video ready after %s. Uploading...", elapsed)
	case p.Attempt == 0:
		return "🎬 Video job started. This usually takes a few minutes."
	}
	return fmt.Sprintf("⏳ Rendering video... check #%d, %s elapsed", p.Attempt, elapsed)
}
