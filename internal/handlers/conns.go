package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/calebsw/unoroom/internal/game"
)

// writeTimeout bounds each WebSocket write so one stalled client cannot
// back up event delivery.
const writeTimeout = 3 * time.Second

// ConnManager tracks the live WebSocket connection per player and
// implements room.Broadcaster. Writes happen on their own goroutines so
// the registry lock is never held across the network.
type ConnManager struct {
	mu     sync.Mutex
	conns  map[uuid.UUID]*websocket.Conn
	logger *logrus.Logger
}

// NewConnManager builds an empty connection table.
func NewConnManager(logger *logrus.Logger) *ConnManager {
	return &ConnManager{
		conns:  make(map[uuid.UUID]*websocket.Conn),
		logger: logger,
	}
}

// Register tracks a player's connection, superseding any previous one.
func (cm *ConnManager) Register(playerID uuid.UUID, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.conns[playerID] = conn
}

// Unregister forgets a connection, but only if it is still the one on
// record; a reconnect may already have replaced it.
func (cm *ConnManager) Unregister(playerID uuid.UUID, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.conns[playerID] == conn {
		delete(cm.conns, playerID)
	}
}

// Send marshals the event and delivers it to the player's connection, if
// any. Delivery is asynchronous and best effort; the read loop notices
// dead connections.
func (cm *ConnManager) Send(playerID uuid.UUID, ev game.Event) {
	cm.mu.Lock()
	conn := cm.conns[playerID]
	cm.mu.Unlock()
	if conn == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		cm.logger.WithError(err).WithField("event", ev.Type).Error("failed to marshal event")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			cm.logger.WithError(err).WithFields(logrus.Fields{
				"player": playerID,
				"event":  ev.Type,
			}).Warn("failed to write event")
		}
	}()
}
