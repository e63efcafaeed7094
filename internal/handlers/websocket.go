package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ipxplorer/internal/engine"
	"ipxplorer/internal/explorer"
	"ipxplorer/internal/models"
	"ipxplorer/internal/render"
)

const (
	defaultWriteWait = 5 * time.Second
	defaultPongWait  = 60 * time.Second
	sendBuffer       = 16 // views supersede each other; oldest is dropped when full
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSClient wraps a WebSocket connection bound to one explorer session.
type WSClient struct {
	conn      *websocket.Conn
	eng       *engine.Engine
	rnd       *render.Renderer
	sess      *engine.Session
	writeWait time.Duration
	pongWait  time.Duration
	sendCh    chan models.WSMessage
	done      chan struct{}
	log       *logrus.Entry
}

// NewWSClient creates a WSClient for an already opened session.
func NewWSClient(conn *websocket.Conn, eng *engine.Engine, rnd *render.Renderer, sess *engine.Session, opts Options) *WSClient {
	c := &WSClient{
		conn:      conn,
		eng:       eng,
		rnd:       rnd,
		sess:      sess,
		writeWait: opts.WriteWait,
		pongWait:  opts.PongWait,
		sendCh:    make(chan models.WSMessage, sendBuffer),
		done:      make(chan struct{}),
		log: logrus.WithFields(logrus.Fields{
			"session": sess.ID,
			"variant": sess.Explorer.Variant().Name,
		}),
	}
	go c.writeLoop()
	return c
}

// SendMessage queues a message for async delivery. Non-blocking: when the
// buffer is full the oldest queued message is dropped.
//
// Only the read loop sends, so the drain-then-send below cannot race with
// another producer.
func (c *WSClient) SendMessage(msg models.WSMessage) {
	select {
	case c.sendCh <- msg:
		return
	default:
	}
	select {
	case <-c.sendCh:
	default:
	}
	select {
	case c.sendCh <- msg:
	default:
	}
}

// writeLoop drains the send channel and writes to the WebSocket. It also
// pings the peer and closes the connection once the session expires.
func (c *WSClient) writeLoop() {
	ping := time.NewTicker(c.pongWait * 9 / 10)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.sendCh:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("websocket ping failed")
				return
			}
		case <-c.sess.Done():
			select {
			case <-c.done:
			default:
				c.log.Info("session expired, closing connection")
			}
			return
		case <-c.done:
			return
		}
	}
}

// ReadLoop reads commands from the client until the connection closes.
func (c *WSClient) ReadLoop() {
	defer func() {
		close(c.done)
		close(c.sendCh)
		c.eng.CloseSession(c.sess.ID)
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.eng.Seen(c.sess)
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	c.sendSession()
	c.sendView()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		var msg models.WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message format")
			continue
		}
		c.handleCommand(msg)
	}
}

func (c *WSClient) handleCommand(msg models.WSMessage) {
	x := c.sess.Explorer

	switch msg.Type {
	case models.MsgSelectSection:
		var req models.SelectSectionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendError("invalid select_section payload")
			return
		}
		s, err := explorer.ParseSection(req.Section)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if !x.SelectSection(s) {
			c.sendError("section " + s.String() + " is not available on this page")
			return
		}

	case models.MsgHoverField:
		var req models.HoverFieldRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendError("invalid hover_field payload")
			return
		}
		if req.Name == "" {
			x.ClearHoveredField()
		} else {
			x.SetHoveredField(req.Name)
		}

	case models.MsgHoverLayer:
		var req models.HoverLayerRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendError("invalid hover_layer payload")
			return
		}
		if req.Number == 0 {
			x.ClearHoveredLayer()
		} else {
			x.SetHoveredLayer(req.Number)
		}

	case models.MsgToggleTheme:
		x.ToggleTheme()

	case models.MsgGetView:

	default:
		c.sendError("unknown command: " + msg.Type)
		return
	}

	c.eng.Touch(c.sess)
	c.sendView()
}

func (c *WSClient) sendSession() {
	payload, _ := json.Marshal(models.SessionPayload{
		ID:      c.sess.ID,
		Variant: c.sess.Explorer.Variant().Name,
	})
	c.SendMessage(models.WSMessage{Type: models.MsgSession, Payload: payload})
}

func (c *WSClient) sendView() {
	view := c.sess.Explorer.View()
	html, err := c.rnd.FragmentString(view)
	if err != nil {
		c.log.WithError(err).Error("render fragment")
		c.sendError("failed to render view")
		return
	}
	payload, err := json.Marshal(models.ViewPayload{State: view.State, HTML: html})
	if err != nil {
		c.log.WithError(err).Error("encode view")
		return
	}
	c.SendMessage(models.WSMessage{Type: models.MsgView, Payload: payload})
}

func (c *WSClient) sendError(message string) {
	payload, _ := json.Marshal(models.ErrorPayload{Message: message})
	c.SendMessage(models.WSMessage{Type: models.MsgError, Payload: payload})
}

// HandleWebSocket is the HTTP handler for WebSocket upgrades.
func HandleWebSocket(eng *engine.Engine, rnd *render.Renderer, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := eng.OpenSession(chi.URLParam(r, "variant"))
		if err != nil {
			switch errors.Cause(err) {
			case explorer.ErrUnknownVariant:
				http.Error(w, err.Error(), http.StatusNotFound)
			case engine.ErrTooManySessions:
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			eng.CloseSession(sess.ID)
			logrus.WithError(err).Warn("websocket upgrade failed")
			return
		}
		client := NewWSClient(conn, eng, rnd, sess, opts)
		client.ReadLoop()
	}
}
