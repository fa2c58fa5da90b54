// SPDX-License-Identifier: EPL-2.0

package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ik5/voxprofile/pcm"
	"github.com/ik5/voxprofile/quality"
	"github.com/ik5/voxprofile/utils"
)

const (
	writeWait       = 10 * time.Second
	maxControlBytes = 64 << 10

	encodingF32 = "f32"
	encodingS16 = "s16"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 << 10,
	WriteBufferSize: 16 << 10,
}

// checkOrigin accepts same-origin, loopback and private network pages.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	// Same-origin requests omit the Origin header
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		s.log.Warn("rejected WebSocket connection: invalid origin URL", zap.String("origin", origin))
		return false
	}

	host := u.Hostname()
	if host == "localhost" {
		return true
	}

	requestHost := r.Host
	if h, _, err := net.SplitHostPort(requestHost); err == nil {
		requestHost = h
	}
	if host == requestHost {
		return true
	}

	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsPrivate()) {
		return true
	}

	s.log.Warn("rejected WebSocket connection", zap.String("origin", origin))
	return false
}

// captureCommand is a text frame sent by the client.
type captureCommand struct {
	Type       string `json:"type" validate:"required,oneof=start stop ping"`
	SampleRate int    `json:"sample_rate" validate:"omitempty,min=8000,max=192000"`
	Channels   int    `json:"channels" validate:"omitempty,min=1,max=8"`
	UserID     string `json:"user_id" validate:"omitempty,max=128,excludesall=/"`
	Encoding   string `json:"encoding" validate:"omitempty,oneof=f32 s16"`
	Transcript string `json:"transcript"`
}

// captureEvent is a message pushed to the client.
type captureEvent struct {
	Type       string             `json:"type"`
	SessionID  string             `json:"session_id,omitempty"`
	SampleRate int                `json:"sample_rate,omitempty"`
	Channels   int                `json:"channels,omitempty"`
	Quality    *quality.Sample    `json:"quality,omitempty"`
	Summary    *quality.Summary   `json:"summary,omitempty"`
	Result     *recordingResponse `json:"result,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// captureConn is one WebSocket client. Only the read loop touches the
// session fields; writes are serialised by writeMu.
type captureConn struct {
	s   *Server
	ws  *websocket.Conn
	log *zap.Logger

	writeMu sync.Mutex

	session  *pcm.Session
	monitor  *quality.Monitor
	forward  sync.WaitGroup
	encoding string
	userID   string
}

// handleCapture streams PCM from the client into a recording session while
// pushing realtime quality readings back. A stop command finishes the
// session: the audio is encoded and analysed and the result returned.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	up := upgrader
	up.CheckOrigin = s.checkOrigin

	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	s.captures.Add(1)
	defer s.captures.Done()

	c := &captureConn{s: s, ws: ws, log: s.log.With(zap.String("remote", r.RemoteAddr))}
	defer c.close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// shutdown closes the socket, which ends the read loop
	go func() {
		select {
		case <-s.closing:
			ws.Close()
		case <-ctx.Done():
		}
	}()

	c.serve(ctx)
}

func (c *captureConn) send(ev captureEvent) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(ev); err != nil {
		c.log.Debug("websocket write failed", zap.Error(err))
	}
}

func (c *captureConn) sendError(err error) {
	c.send(captureEvent{Type: "error", Error: err.Error()})
}

func (c *captureConn) serve(ctx context.Context) {
	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		switch mt {
		case websocket.TextMessage:
			if len(data) > maxControlBytes {
				c.sendError(errors.New("control message too large"))
				continue
			}
			c.command(ctx, data)
		case websocket.BinaryMessage:
			c.frames(ctx, data)
		}
	}
}

func (c *captureConn) command(ctx context.Context, data []byte) {
	var cmd captureCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.sendError(fmt.Errorf("invalid JSON: %w", err))
		return
	}
	if err := validate.Struct(cmd); err != nil {
		c.sendError(err)
		return
	}

	switch cmd.Type {
	case "ping":
		c.send(captureEvent{Type: "pong"})
	case "start":
		if err := c.start(cmd); err != nil {
			c.sendError(err)
		}
	case "stop":
		c.finish(ctx, cmd.Transcript)
	}
}

func (c *captureConn) start(cmd captureCommand) error {
	if c.session != nil {
		return errors.New("capture already started")
	}

	rate := cmd.SampleRate
	if rate == 0 {
		rate = c.s.defaultRate
	}
	channels := max(cmd.Channels, 1)

	session, err := pcm.New(rate, channels)
	if err != nil {
		return err
	}

	monitor := quality.NewMonitor(quality.NewAnalyser(session), c.s.interval)
	if err := monitor.Start(); err != nil {
		return err
	}

	c.session = session
	c.monitor = monitor
	c.userID = cmd.UserID
	c.encoding = cmd.Encoding
	if c.encoding == "" {
		c.encoding = encodingF32
	}

	c.forward.Go(func() {
		for sample := range monitor.Samples() {
			c.send(captureEvent{Type: "quality", SessionID: session.ID(), Quality: &sample})
		}
	})

	c.log.Info("capture started",
		zap.String("session", session.ID()),
		zap.Int("sample_rate", rate),
		zap.Int("channels", channels),
		zap.String("encoding", c.encoding),
	)
	c.send(captureEvent{Type: "started", SessionID: session.ID(), SampleRate: rate, Channels: channels})

	return nil
}

// decodeFrames converts little-endian PCM bytes to samples.
func decodeFrames(data []byte, encoding string) ([]float32, []int16, error) {
	switch encoding {
	case encodingS16:
		if len(data)%2 != 0 {
			return nil, nil, fmt.Errorf("s16 frame of %d bytes is not sample aligned", len(data))
		}
		out := make([]int16, len(data)/2)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
		}
		return nil, out, nil
	default:
		if len(data)%4 != 0 {
			return nil, nil, fmt.Errorf("f32 frame of %d bytes is not sample aligned", len(data))
		}
		out := make([]float32, len(data)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		}
		return out, nil, nil
	}
}

func (c *captureConn) frames(ctx context.Context, data []byte) {
	if c.session == nil {
		c.sendError(errors.New("capture not started"))
		return
	}

	floats, ints, err := decodeFrames(data, c.encoding)
	if err != nil {
		c.sendError(err)
		return
	}

	if ints != nil {
		err = c.session.AppendPCM(ints)
	} else {
		err = c.session.Append(floats)
	}
	if err != nil {
		c.sendError(err)
		return
	}

	if c.s.maxCapture > 0 && c.session.Duration() >= c.s.maxCapture {
		c.log.Info("capture reached its maximum duration", zap.String("session", c.session.ID()))
		c.finish(ctx, "")
	}
}

// stopMonitor halts quality sampling and waits for the forwarder to drain.
func (c *captureConn) stopMonitor() quality.Summary {
	c.monitor.Stop()
	c.forward.Wait()

	return c.monitor.Summary()
}

func (c *captureConn) finish(ctx context.Context, transcript string) {
	if c.session == nil {
		c.sendError(errors.New("capture not started"))
		return
	}

	session := c.session
	summary := c.stopMonitor()
	c.session, c.monitor = nil, nil

	session.Stop(transcript)

	rec, err := c.s.pipeline.Finish(session)
	if err != nil {
		session.Release()
		c.sendError(err)
		return
	}

	saved, err := c.s.saveRecording(ctx, rec, c.userID, utils.Round1(summary.Mean))
	if err != nil {
		c.log.Error("saving capture", zap.String("session", rec.SessionID), zap.Error(err))
		c.sendError(err)
		return
	}

	c.send(captureEvent{
		Type:      "result",
		SessionID: saved.ID,
		Summary:   &summary,
		Result: &recordingResponse{
			Success:    true,
			ID:         saved.ID,
			Filename:   saved.Key,
			Format:     formatLabel(saved.SampleRate, saved.Channels),
			Compatible: true,
			WordCount:  saved.WordCount,
			Analysis:   saved.Analysis,
		},
	})
}

// close aborts an unfinished session.
func (c *captureConn) close() {
	if c.session != nil {
		c.stopMonitor()
		c.session.Release()
		c.log.Info("capture aborted", zap.String("session", c.session.ID()))
		c.session = nil
	}

	c.ws.Close()
}
