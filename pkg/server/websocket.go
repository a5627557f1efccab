package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	naverrors "github.com/vango-dev/navbridge/internal/errors"
	"github.com/vango-dev/navbridge/pkg/bridge"
	"github.com/vango-dev/navbridge/pkg/host"
	"github.com/vango-dev/navbridge/pkg/resolver"
)

// Message types.
const (
	typeNavigate = "navigate"
	typeDecision = "decision"
	typeRoute    = "route"
	typeError    = "error"
)

// clientMessage is a message sent by a remote host.
type clientMessage struct {
	Type   string       `json:"type"`
	ID     uint64       `json:"id"`
	View   *host.View   `json:"view,omitempty"`
	Intent *host.Intent `json:"intent,omitempty"`
}

type decisionMessage struct {
	Type     string        `json:"type"`
	ID       uint64        `json:"id"`
	Decision string        `json:"decision"`
	Action   bridge.Action `json:"action,omitempty"`
	Proceed  bool          `json:"proceed"`
}

type routeMessage struct {
	Type    string          `json:"type"`
	ID      uint64          `json:"id"`
	Payload *bridge.Payload `json:"payload"`
}

type errorMessage struct {
	Type  string `json:"type"`
	ID    uint64 `json:"id"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// conn is one websocket client with its own host and bridge.
type conn struct {
	srv    *Server
	ws     *websocket.Conn
	app    *host.App
	bridge *bridge.Bridge
	logger *slog.Logger

	// mu serializes writes and guards ids. Handle runs under mu, so a
	// route message can never overtake its decision message.
	mu  sync.Mutex
	ids map[uint64]uint64 // bridge seq → client message id

	closeOnce sync.Once
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		s.http.RecordWebSocketError("upgrade")
		return
	}

	c, err := s.newConn(ws, r.RemoteAddr)
	if err != nil {
		s.logger.Error("bridge setup failed", "error", err)
		ws.Close()
		return
	}

	s.track(c)
	defer s.untrack(c)
	c.readLoop()
}

func (s *Server) newConn(ws *websocket.Conn, remote string) (*conn, error) {
	c := &conn{
		srv:    s,
		ws:     ws,
		app:    host.NewApp(),
		logger: s.logger.With("remote", remote),
		ids:    make(map[uint64]uint64),
	}

	opts := []bridge.Option{
		bridge.WithMetrics(s.metrics),
		bridge.WithLogger(c.logger),
		bridge.WithContext(s.ctx),
	}
	if s.config.DropStale {
		opts = append(opts, bridge.WithDropStale())
	}
	b, err := bridge.New(s.defs, c.app, opts...)
	if err != nil {
		return nil, err
	}
	b.SetRouteChangeHandler(c.deliver)
	c.bridge = b
	return c, nil
}

// readLoop reads client messages until the connection fails or closes.
func (c *conn) readLoop() {
	defer c.close()

	cfg := c.srv.config
	c.ws.SetReadLimit(cfg.MaxMessageSize)

	for {
		c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
				c.srv.http.RecordWebSocketError("read")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.srv.http.RecordWebSocketError("decode")
			c.writeLocked(errorMessage{Type: typeError, Code: "E202", Error: err.Error()})
			continue
		}
		c.handle(msg)
	}
}

func (c *conn) handle(msg clientMessage) {
	if msg.Type != typeNavigate || msg.Intent == nil {
		c.srv.http.RecordWebSocketError("decode")
		c.writeLocked(errorMessage{
			Type:  typeError,
			ID:    msg.ID,
			Code:  "E202",
			Error: naverrors.New("E202").Detail,
		})
		return
	}

	if msg.View != nil {
		c.app.SetViews(msg.View)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out, err := c.bridge.Handle(msg.View, *msg.Intent)
	if err != nil {
		ne := naverrors.FromError(err, "E201").WithWhere(msg.Intent.URL)
		c.logger.Debug("navigation intent rejected", "error", ne.FormatCompact())
		c.write(errorMessage{Type: typeError, ID: msg.ID, Code: ne.Code, Error: ne.FormatCompact()})
		return
	}
	if out.Decision == bridge.Intercept {
		c.ids[out.Seq] = msg.ID
	}
	c.write(decisionMessage{
		Type:     typeDecision,
		ID:       msg.ID,
		Decision: out.Decision.String(),
		Action:   out.Action,
		Proceed:  out.Proceed,
	})
}

// deliver is the bridge's route change handler.
func (c *conn) deliver(ctx context.Context, payload *bridge.Payload, err error) {
	seq, _ := bridge.SeqFromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.ids[seq]
	if !ok {
		return
	}
	delete(c.ids, seq)
	if c.srv.config.DropStale {
		for s := range c.ids {
			if s < seq {
				delete(c.ids, s)
			}
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		var nf *resolver.NotFoundError
		if errors.As(err, &nf) {
			ne := naverrors.FromError(err, "E200").WithWhere(nf.Path)
			c.logger.Debug("route change failed", "error", ne.FormatCompact())
			c.write(errorMessage{Type: typeError, ID: id, Code: ne.Code, Error: ne.FormatCompact()})
			return
		}
		c.write(errorMessage{Type: typeError, ID: id, Error: err.Error()})
		return
	}
	c.write(routeMessage{Type: typeRoute, ID: id, Payload: payload})
}

func (c *conn) writeLocked(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write(v)
}

// write sends v. c.mu must be held.
func (c *conn) write(v any) {
	c.ws.SetWriteDeadline(time.Now().Add(c.srv.config.WriteTimeout))
	if err := c.ws.WriteJSON(v); err != nil {
		c.logger.Debug("websocket write failed", "error", err)
		c.srv.http.RecordWebSocketError("write")
	}
}

// closeWith sends a close frame and closes the socket, which ends readLoop.
func (c *conn) closeWith(code int, text string) {
	c.mu.Lock()
	deadline := time.Now().Add(c.srv.config.WriteTimeout)
	c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
	c.mu.Unlock()
	c.ws.Close()
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		c.bridge.Close()
		c.ws.Close()
	})
}
