package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"prompt-studio/internal/studio"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type videoStart struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

type videoEvent struct {
	Status    string   `json:"status"`
	Operation string   `json:"operation,omitempty"`
	Attempt   int      `json:"attempt"`
	Done      bool     `json:"done"`
	ElapsedS  int64    `json:"elapsed_s"`
	VideoURI  string   `json:"video_uri,omitempty"`
	VideoURIs []string `json:"video_uris,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func progressEvent(status string, p studio.VideoProgress) videoEvent {
	ev := videoEvent{
		Status:    status,
		Operation: p.Operation,
		Attempt:   p.Attempt,
		Done:      p.Done,
		ElapsedS:  int64(p.Elapsed / time.Second),
		VideoURIs: p.VideoURIs,
		Error:     p.Error,
	}
	if len(p.VideoURIs) > 0 {
		ev.VideoURI = p.VideoURIs[0]
	}
	return ev
}

// videoSocket runs one video job per connection. The client sends a single
// start message and receives a progress event per poll followed by a final
// "completed" or "failed" event. Closing the socket cancels the job.
func (h *Handler) videoSocket(c *gin.Context) {
	who := owner(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "owner", who, "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	var start videoStart
	if err := conn.ReadJSON(&start); err != nil {
		writeEvent(conn, videoEvent{Status: "failed", Done: true, Error: "invalid start message"})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	send := make(chan videoEvent, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeEvents(conn, send, cancel)
	}()

	// Reader: only pongs and close frames are expected after the start message.
	go func() {
		defer cancel()
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("websocket read", "owner", who, "err", err)
				}
				return
			}
		}
	}()

	emit := func(ev videoEvent) {
		select {
		case send <- ev:
		case <-ctx.Done():
		}
	}

	h.logger.Info("video job requested", "owner", who)
	final, err := h.studio.GenerateVideo(ctx, who, start.Prompt, start.AspectRatio, func(p studio.VideoProgress) {
		status := "polling"
		if p.Attempt == 0 {
			status = "started"
		}
		emit(progressEvent(status, p))
	})
	if err != nil {
		ev := progressEvent("failed", final)
		ev.Done = true
		ev.Error = studio.UserMessage(err)
		emit(ev)
	} else {
		emit(progressEvent("completed", final))
	}

	close(send)
	<-writerDone
}

// writeEvents is the only goroutine writing to conn.
func (h *Handler) writeEvents(conn *websocket.Conn, send <-chan videoEvent, cancel context.CancelFunc) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-send:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := writeEvent(conn, ev); err != nil {
				h.logger.Debug("websocket write failed", "err", err)
				cancel()
				drain(send)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cancel()
				drain(send)
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev videoEvent) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(ev)
}

func drain(send <-chan videoEvent) {
	for range send {
	}
}
