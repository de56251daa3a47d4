package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	MaxMessageBytes = 4096
	maxCaptionBytes = 1024
)

type Options struct {
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Debug      bool
}

type Client struct {
	bot        *tgbotapi.BotAPI
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if opts.HTTPClient == nil {
		return nil, errors.New("http client is nil")
	}

	bot, err := tgbotapi.NewBotAPIWithClient(opts.Token, tgbotapi.APIEndpoint, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	bot.Debug = opts.Debug

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		bot:        bot,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}, nil
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}

type (
	Update         = tgbotapi.Update
	Message        = tgbotapi.Message
	CallbackQuery  = tgbotapi.CallbackQuery
	InlineKeyboard = tgbotapi.InlineKeyboardMarkup
)

type UpdatesOptions struct {
	Timeout time.Duration
}

func (c *Client) Updates(opts UpdatesOptions) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	if opts.Timeout > 0 {
		u.Timeout = int(opts.Timeout.Seconds())
	} else {
		u.Timeout = 30
	}
	return c.bot.GetUpdatesChan(u)
}

func (c *Client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

func (c *Client) SendTyping(chatID int64) {
	_, _ = c.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

func (c *Client) SendUploading(chatID int64) {
	_, _ = c.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadVideo))
}

// SendText splits text at the message size limit and sends every part.
// It returns the ID of the last message sent.
func (c *Client) SendText(chatID int64, text string) (int, error) {
	var last int
	for _, p := range SplitByBytes(text, MaxMessageBytes) {
		sent, err := c.bot.Send(tgbotapi.NewMessage(chatID, p))
		if err != nil {
			return last, err
		}
		last = sent.MessageID
	}
	return last, nil
}

func (c *Client) SendTextWithKeyboard(chatID int64, text string, kb InlineKeyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, TruncateByBytes(text, MaxMessageBytes))
	msg.ReplyMarkup = kb
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) EditText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, TruncateByBytes(text, MaxMessageBytes))
	_, err := c.bot.Send(edit)
	return ignoreNotModified(err)
}

func (c *Client) EditTextWithKeyboard(chatID int64, messageID int, text string, kb InlineKeyboard) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, TruncateByBytes(text, MaxMessageBytes), kb)
	_, err := c.bot.Send(edit)
	return ignoreNotModified(err)
}

func (c *Client) AnswerCallback(callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	_, err := c.bot.Request(cb)
	return err
}

func (c *Client) SendPhotoDataURL(chatID int64, dataURL string, caption string) error {
	mimeType, base64Data, err := parseDataURL(dataURL)
	if err != nil {
		return err
	}

	bytes, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return fmt.Errorf("decode base64: %w", err)
	}

	name := "image.jpg"
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		name = "image" + exts[0]
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: bytes,
	})
	if caption != "" {
		photo.Caption = TruncateByBytes(caption, maxCaptionBytes)
	}

	_, err = c.bot.Send(photo)
	return err
}

// SendDocument is used for exports that do not fit in one message.
func (c *Client) SendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if caption != "" {
		doc.Caption = TruncateByBytes(caption, maxCaptionBytes)
	}
	_, err := c.bot.Send(doc)
	return err
}

func (c *Client) SendVideo(chatID int64, name string, data []byte, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if caption != "" {
		video.Caption = TruncateByBytes(caption, maxCaptionBytes)
	}
	_, err := c.bot.Send(video)
	return err
}

// DownloadFile fetches a Telegram file and sniffs its MIME type when the
// file server does not report a useful one.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	fileURL, err := c.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("telegram file download %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	return data, detectMimeType(resp.Header.Get("content-type"), data), nil
}

func detectMimeType(header string, data []byte) string {
	mimeType := stripParams(header)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = stripParams(http.DetectContentType(data))
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "image/jpeg"
	}
	return mimeType
}

func stripParams(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

func ignoreNotModified(err error) error {
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

func parseDataURL(value string) (mimeType string, base64Data string, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", "", errors.New("empty data url")
	}

	const prefix = "data:"
	if !strings.HasPrefix(value, prefix) {
		return "image/jpeg", value, nil
	}

	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return "", "", errors.New("invalid data url")
	}

	meta := strings.TrimPrefix(parts[0], prefix)
	metaParts := strings.Split(meta, ";")
	mimeType = strings.TrimSpace(metaParts[0])
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return mimeType, parts[1], nil
}

// SplitByBytes cuts text into chunks of at most maxBytes without splitting a
// rune. Paragraph breaks are preferred as cut points.
func SplitByBytes(text string, maxBytes int) []string {
	if len(text) <= maxBytes || maxBytes <= 0 {
		return []string{text}
	}

	var out []string
	for len(text) > maxBytes {
		cut := TruncateByBytes(text, maxBytes)
		if cut == "" {
			break
		}
		if i := strings.LastIndex(cut, "\n\n"); i >= maxBytes/2 {
			cut = cut[:i]
		}
		out = append(out, cut)
		text = strings.TrimLeft(text[len(cut):], "\n")
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

func TruncateByBytes(text string, maxBytes int) string {
	if len(text) <= maxBytes || maxBytes <= 0 {
		return text
	}

	var buf strings.Builder
	buf.Grow(maxBytes)
	for _, r := range text {
		runeBytes := utf8.RuneLen(r)
		if runeBytes < 0 {
			runeBytes = len(string(r))
		}

		if buf.Len()+runeBytes > maxBytes {
			break
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
