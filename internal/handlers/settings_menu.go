package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"prompt-studio/internal/framework"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/sections"
	"prompt-studio/internal/session"
)

const settingsCallbackPrefix = "ps"

const (
	menuMain      = "main"
	menuFramework = "framework"
	menuFormat    = "format"
	menuAspect    = "aspect"
	menuMood      = "mood"
	menuShots     = "shots"
)

func menuForCommand(command string) string {
	if command == "frameworks" {
		return menuFramework
	}
	return menuMain
}

func (h *Handler) openSettings(chatID, userID int64, menu string) error {
	st := h.sessions.Get(chatID, userID)
	_, err := h.tg.SendTextWithKeyboard(chatID, settingsText(st, menu), settingsKeyboard(userID, st, menu))
	return err
}

type callback struct {
	OwnerID int64
	Action  string
	Args    []string
}

// parseCallback decodes "ps:<owner>:<action>[:args...]".
func parseCallback(data string) (callback, bool) {
	parts := strings.Split(strings.TrimSpace(data), ":")
	if len(parts) < 3 || parts[0] != settingsCallbackPrefix {
		return callback{}, false
	}
	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return callback{}, false
	}
	return callback{OwnerID: ownerID, Action: parts[2], Args: parts[3:]}, true
}

func cb(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", settingsCallbackPrefix, ownerID, strings.Join(parts, ":"))
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.From == nil {
		return nil
	}
	call, ok := parseCallback(q.Data)
	if !ok {
		return nil
	}
	if call.OwnerID != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "This menu is not for you.", true)
		return nil
	}

	chatID := q.Message.Chat.ID
	menu, notice := menuMain, "OK"

	var closed bool
	st := h.sessions.Update(chatID, call.OwnerID, func(st *session.Settings) {
		menu, notice, closed = applyCallback(st, call)
	})
	_ = h.tg.AnswerCallback(q.ID, notice, false)

	if closed {
		return h.tg.EditText(chatID, q.Message.MessageID, settingsSummary(st))
	}
	return h.tg.EditTextWithKeyboard(chatID, q.Message.MessageID, settingsText(st, menu), settingsKeyboard(call.OwnerID, st, menu))
}

// applyCallback mutates st for one button press and returns the menu to show
// next, a short notice for the callback answer and whether the menu closes.
func applyCallback(st *session.Settings, call callback) (string, string, bool) {
	arg := ""
	if len(call.Args) > 0 {
		arg = call.Args[0]
	}

	switch call.Action {
	case "menu":
		if arg == "" {
			arg = menuMain
		}
		return arg, "OK", false
	case "fw":
		if fw, ok := framework.Lookup(arg); ok {
			st.Framework = fw.ID
			return menuMain, fw.Name, false
		}
	case "concise":
		st.Concise = !st.Concise
		return menuMain, "Concise " + onOff(st.Concise), false
	case "copilot":
		st.CoPilot = !st.CoPilot
		return menuMain, "Co-pilot " + onOff(st.CoPilot), false
	case "format":
		if f, err := sections.ParseFormat(arg); err == nil {
			st.ExportFormat = string(f)
			return menuMain, "Export " + string(f), false
		}
	case "ar":
		if ar := prompt.NormalizeAspectRatio(arg); ar != "" {
			st.AspectRatio = ar
			return menuMain, "Aspect " + ar, false
		}
	case "mood":
		if arg == "none" {
			st.AudioMood = ""
			return menuMain, "Audio mood cleared", false
		}
		if hasOption(prompt.AudioMoods(), arg) {
			st.AudioMood = arg
			return menuMain, optionName(prompt.AudioMoods(), arg), false
		}
	case "shot":
		if hasOption(prompt.CameraShots(), arg) {
			st.CameraShots = toggle(st.CameraShots, arg)
		}
		return menuShots, "OK", false
	case "shots_clear":
		st.CameraShots = nil
		return menuShots, "Camera shots cleared", false
	case "close":
		st.Awaiting = session.AwaitingNothing
		return menuMain, "Saved", true
	}
	return menuMain, "OK", false
}

func settingsText(st session.Settings, menu string) string {
	var b strings.Builder
	b.WriteString("⚙️ Prompt Studio settings\n\n")
	b.WriteString(settingsSummary(st))

	switch menu {
	case menuFramework:
		b.WriteString("\n\nFrameworks:\n")
		for _, fw := range framework.All() {
			fmt.Fprintf(&b, "• %s (%s): %s\n", fw.Name, fw.Medium, fw.Summary)
		}
	case menuShots:
		b.WriteString("\n\nTap shots to toggle them.")
	}
	return strings.TrimSpace(b.String())
}

func settingsSummary(st session.Settings) string {
	fwName := string(st.Framework)
	if fw, ok := framework.Lookup(string(st.Framework)); ok {
		fwName = fw.Name
	}

	mood := "(none)"
	for _, o := range prompt.AudioMoods() {
		if o.Key == st.AudioMood {
			mood = o.Name
			break
		}
	}

	shots := "(none)"
	if len(st.CameraShots) > 0 {
		names := make([]string, 0, len(st.CameraShots))
		for _, key := range st.CameraShots {
			names = append(names, optionName(prompt.CameraShots(), key))
		}
		shots = strings.Join(names, ", ")
	}

	style := "(none)"
	if st.StyleFileID != "" {
		style = "saved ✅"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Framework: %s\n", fwName)
	fmt.Fprintf(&b, "Concise: %s, Co-pilot: %s\n", onOff(st.Concise), onOff(st.CoPilot))
	fmt.Fprintf(&b, "Aspect ratio: %s\n", st.AspectRatio)
	fmt.Fprintf(&b, "Audio mood: %s\n", mood)
	fmt.Fprintf(&b, "Camera shots: %s\n", shots)
	fmt.Fprintf(&b, "Style image: %s\n", style)
	fmt.Fprintf(&b, "Export format: %s", st.ExportFormat)
	return b.String()
}

func settingsKeyboard(ownerID int64, st session.Settings, menu string) tgbotapi.InlineKeyboardMarkup {
	switch menu {
	case menuFramework:
		opts := make([]optionButton, 0, len(framework.All()))
		for _, fw := range framework.All() {
			opts = append(opts, optionButton{label: fw.Name, data: cb(ownerID, "fw", string(fw.ID)), selected: fw.ID == st.Framework})
		}
		return gridKeyboard(ownerID, opts, 2)
	case menuFormat:
		var opts []optionButton
		for _, f := range sections.Formats() {
			opts = append(opts, optionButton{label: string(f), data: cb(ownerID, "format", string(f)), selected: string(f) == st.ExportFormat})
		}
		return gridKeyboard(ownerID, opts, 4)
	case menuAspect:
		var opts []optionButton
		for _, o := range prompt.AspectRatios() {
			opts = append(opts, optionButton{label: o.Name, data: cb(ownerID, "ar", o.Key), selected: o.Key == st.AspectRatio})
		}
		return gridKeyboard(ownerID, opts, 3)
	case menuMood:
		opts := []optionButton{{label: "None", data: cb(ownerID, "mood", "none"), selected: st.AudioMood == ""}}
		for _, o := range prompt.AudioMoods() {
			opts = append(opts, optionButton{label: o.Name, data: cb(ownerID, "mood", o.Key), selected: o.Key == st.AudioMood})
		}
		return gridKeyboard(ownerID, opts, 2)
	case menuShots:
		var opts []optionButton
		for _, o := range prompt.CameraShots() {
			opts = append(opts, optionButton{label: o.Name, data: cb(ownerID, "shot", o.Key), selected: contains(st.CameraShots, o.Key)})
		}
		kb := gridKeyboard(ownerID, opts, 2)
		kb.InlineKeyboard = append(kb.InlineKeyboard[:len(kb.InlineKeyboard)-1],
			[]tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData("Clear", cb(ownerID, "shots_clear")),
				tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", menuMain)),
			})
		return kb
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Framework", cb(ownerID, "menu", menuFramework)),
			tgbotapi.NewInlineKeyboardButtonData("Aspect ratio", cb(ownerID, "menu", menuAspect)),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Concise: "+onOff(st.Concise), cb(ownerID, "concise")),
			tgbotapi.NewInlineKeyboardButtonData("Co-pilot: "+onOff(st.CoPilot), cb(ownerID, "copilot")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Audio mood", cb(ownerID, "menu", menuMood)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Camera shots (%d)", len(st.CameraShots)), cb(ownerID, "menu", menuShots)),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("Export format", cb(ownerID, "menu", menuFormat)),
			tgbotapi.NewInlineKeyboardButtonData("Close", cb(ownerID, "close")),
		},
	)
}

type optionButton struct {
	label    string
	data     string
	selected bool
}

// gridKeyboard lays options out perRow per row and appends a back button.
func gridKeyboard(ownerID int64, opts []optionButton, perRow int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, o := range opts {
		label := o.label
		if o.selected {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, o.data))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, "menu", menuMain)),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func toggle(list []string, key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return list
	}
	out := make([]string, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v == key {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, key)
	}
	return out
}

func contains(list []string, key string) bool {
	for _, v := range list {
		if v == key {
			return true
		}
	}
	return false
}

func hasOption(opts []prompt.NamedOption, key string) bool {
	for _, o := range opts {
		if o.Key == key {
			return true
		}
	}
	return false
}

func optionName(opts []prompt.NamedOption, key string) string {
	for _, o := range opts {
		if o.Key == key {
			return o.Name
		}
	}
	return key
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
