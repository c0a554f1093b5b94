package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/calebsw/unoroom/internal/game"
	"github.com/calebsw/unoroom/internal/models"
	"github.com/calebsw/unoroom/internal/monitor"
	"github.com/calebsw/unoroom/internal/room"
)

// ClientMessage is the single inbound message shape. Type selects the
// command; the other fields carry whichever arguments it needs.
type ClientMessage struct {
	Type        string       `json:"type"`
	Name        string       `json:"name,omitempty"`
	RoomID      string       `json:"roomId,omitempty"`
	Ready       bool         `json:"ready,omitempty"`
	Card        *models.Card `json:"card,omitempty"`
	ChosenColor models.Color `json:"chosenColor,omitempty"`
}

// WSServer upgrades connections and feeds decoded client commands into
// the room registry.
type WSServer struct {
	Registry *room.Registry
	Conns    *ConnManager
	Logger   *logrus.Logger
	Monitor  *monitor.Monitor
}

// NewWSServer wires the WebSocket endpoint. mon may be nil.
func NewWSServer(reg *room.Registry, conns *ConnManager, logger *logrus.Logger, mon *monitor.Monitor) *WSServer {
	return &WSServer{Registry: reg, Conns: conns, Logger: logger, Monitor: mon}
}

// ServeHTTP handles GET /ws. The guest cookie is established before the
// upgrade, since headers cannot be written afterward.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID, err := EnsureGuest(w, r)
	if err != nil {
		s.Logger.WithError(err).Error("failed to establish guest session")
		http.Error(w, "failed to establish session", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.Logger.WithError(err).Warn("websocket accept failed")
		return
	}

	s.Conns.Register(playerID, conn)
	s.Logger.WithField("player", playerID).Info("player connected")

	defer func() {
		s.Conns.Unregister(playerID, conn)
		s.Registry.HandleDisconnect(playerID)
		conn.Close(websocket.StatusNormalClosure, "closing")
		s.Logger.WithField("player", playerID).Info("player disconnected")
	}()

	s.readLoop(r.Context(), conn, playerID)
}

// readLoop decodes messages until the connection drops and dispatches each
// one to the registry.
func (s *WSServer) readLoop(ctx context.Context, conn *websocket.Conn, playerID uuid.UUID) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Logger.WithError(err).WithField("player", playerID).Warn("malformed message")
			s.Conns.Send(playerID, game.Event{Type: game.EventError, Message: "Invalid message format"})
			continue
		}
		if s.Monitor != nil {
			s.Monitor.IncCommandsReceived()
		}
		s.dispatch(playerID, msg)
	}
}

func (s *WSServer) dispatch(playerID uuid.UUID, msg ClientMessage) {
	switch msg.Type {
	case "createRoom":
		s.Registry.CreateRoom(playerID, msg.Name)
	case "joinRoom":
		s.Registry.JoinRoom(playerID, msg.RoomID, msg.Name)
	case "setReady":
		s.Registry.SetReady(playerID, msg.Ready)
	case "startGame":
		s.Registry.StartGame(playerID)
	case "playCard":
		if msg.Card == nil {
			s.Conns.Send(playerID, game.Event{Type: game.EventError, Message: "Card is required"})
			return
		}
		s.Registry.PlayCard(playerID, *msg.Card, msg.ChosenColor)
	case "drawCard":
		s.Registry.DrawCard(playerID)
	case "callUno":
		s.Registry.CallUno(playerID)
	case "playAgain":
		s.Registry.PlayAgain(playerID)
	case "getPlayAgainStatus":
		s.Registry.PlayAgainStatus(playerID)
	case "startNewGame":
		s.Registry.StartNewGame(playerID)
	case "leaveGame":
		s.Registry.LeaveRoom(playerID)
	case "ping":
		s.Conns.Send(playerID, game.Event{Type: game.EventPong})
	default:
		s.Logger.WithFields(logrus.Fields{
			"player": playerID,
			"type":   msg.Type,
		}).Warn("unknown message type")
		s.Conns.Send(playerID, game.Event{Type: game.EventError, Message: "Unknown message type"})
	}
}
