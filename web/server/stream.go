package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-bvh-pathtracer/pkg/imageio"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// StreamMessage is one websocket frame of a streamed render
type StreamMessage struct {
	Type      string       `json:"type"` // "progress", "complete" or "error"
	RowsDone  int          `json:"rowsDone,omitempty"`
	TotalRows int          `json:"totalRows,omitempty"`
	ImageData string       `json:"imageData,omitempty"` // Base64 encoded PNG
	Stats     *RenderStats `json:"stats,omitempty"`
	Error     string       `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleRenderStream renders over a websocket, sending a progress message
// per finished row and the encoded image last. Closing the socket cancels the render.
func (s *Server) handleRenderStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warningf("websocket upgrade failed: %v", err)
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Nothing is expected from the client, reading only detects the close
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	job, err := s.prepareRender(c.QueryParams())
	if err != nil {
		s.sendStreamError(conn, err)
		return nil
	}

	var writeErr error
	progress := func(rowsDone, totalRows int) {
		if writeErr != nil {
			return
		}
		writeErr = conn.WriteJSON(StreamMessage{Type: "progress", RowsDone: rowsDone, TotalRows: totalRows})
		if writeErr != nil {
			cancel()
		}
	}

	fb := renderer.NewFrameBuffer(job.cfg.ImageWidth, job.cfg.ImageHeight())
	stats, err := renderer.Render(ctx, job.cfg, job.world, job.lights, fb, renderer.WithProgress(progress))
	if err != nil {
		logger.Infof("streamed render of %s stopped: %v", job.name, err)
		if writeErr == nil {
			s.sendStreamError(conn, err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := imageio.WritePNG(&buf, fb); err != nil {
		s.sendStreamError(conn, err)
		return nil
	}
	renderStats := newRenderStats(stats)
	if err := conn.WriteJSON(StreamMessage{
		Type:      "complete",
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats:     &renderStats,
	}); err != nil {
		logger.Warningf("failed to send image: %v", err)
		return nil
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
	return nil
}

func (s *Server) sendStreamError(conn *websocket.Conn, err error) {
	if writeErr := conn.WriteJSON(StreamMessage{Type: "error", Error: err.Error()}); writeErr != nil {
		logger.Warningf("failed to send error: %v", writeErr)
	}
}
