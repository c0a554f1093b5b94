package room

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/calebsw/unoroom/internal/database"
	"github.com/calebsw/unoroom/internal/game"
	"github.com/calebsw/unoroom/internal/journal"
	"github.com/calebsw/unoroom/internal/models"
	"github.com/calebsw/unoroom/internal/monitor"
)

// Broadcaster delivers one event to one connected player. The transport
// layer implements it; tests substitute a recorder.
type Broadcaster interface {
	Send(playerID uuid.UUID, ev game.Event)
}

// Config carries the registry's tunable policy values.
type Config struct {
	// GracePeriod is how long an empty room survives before deletion,
	// giving a disconnected creator time to come back.
	GracePeriod time.Duration
	// ResetDelay is the pause between a unanimous play-again vote and the
	// automatic lobby reset, so clients can show the final tally.
	ResetDelay time.Duration
	// MaxPlayers caps seats per room.
	MaxPlayers int
}

// DefaultConfig mirrors the reference behavior: 30s grace, 2s reset delay,
// 10 seats.
func DefaultConfig() Config {
	return Config{
		GracePeriod: 30 * time.Second,
		ResetDelay:  2 * time.Second,
		MaxPlayers:  game.DefaultMaxPlayers,
	}
}

// Registry owns every live room and the connection-to-room lookup. All
// commands and timer callbacks are serialized through its single mutex, so
// games never see concurrent mutation.
type Registry struct {
	mu          sync.Mutex
	rooms       map[string]*game.UnoGame
	playerRooms map[uuid.UUID]string

	deleteTimers map[string]*time.Timer
	resetTimers  map[string]*time.Timer

	broadcaster Broadcaster
	log         *logrus.Logger
	mon         *monitor.Monitor
	cfg         Config
}

// NewRegistry builds an empty registry. mon may be nil when metrics are
// disabled.
func NewRegistry(b Broadcaster, logger *logrus.Logger, mon *monitor.Monitor, cfg Config) *Registry {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultConfig().GracePeriod
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = DefaultConfig().ResetDelay
	}
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = game.DefaultMaxPlayers
	}
	return &Registry{
		rooms:        make(map[string]*game.UnoGame),
		playerRooms:  make(map[uuid.UUID]string),
		deleteTimers: make(map[string]*time.Timer),
		resetTimers:  make(map[string]*time.Timer),
		broadcaster:  b,
		log:          logger,
		mon:          mon,
		cfg:          cfg,
	}
}

// CreateRoom opens a fresh room with the caller as host and first player.
func (r *Registry) CreateRoom(playerID uuid.UUID, playerName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		r.sendError(playerID, "Player name is required")
		return
	}

	// A connection that was still tracked in another room leaves it first.
	if _, ok := r.playerRooms[playerID]; ok {
		r.removePlayerLocked(playerID, true)
	}

	code := newRoomCode(func(c string) bool {
		_, live := r.rooms[c]
		return live
	})
	g := game.NewUnoGame(code, r.cfg.MaxPlayers)
	if err := g.AddPlayer(playerID, playerName); err != nil {
		r.sendError(playerID, err.Error())
		return
	}
	r.rooms[code] = g
	r.playerRooms[playerID] = code

	r.log.WithFields(logrus.Fields{"room": code, "player": playerName}).Info("room created")
	journal.LogCommand(code, playerID, "createRoom")
	r.updateGauges()

	state := g.Snapshot()
	hand := g.PlayerHand(playerID)
	r.broadcaster.Send(playerID, game.Event{Type: game.EventRoomCreated, RoomID: code, State: &state})
	r.broadcaster.Send(playerID, game.Event{Type: game.EventHandUpdate, Hand: &hand})
}

// JoinRoom seats the caller in an existing room found by its code.
func (r *Registry) JoinRoom(playerID uuid.UUID, roomCode, playerName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerName = strings.TrimSpace(playerName)
	if playerName == "" || strings.TrimSpace(roomCode) == "" {
		r.sendError(playerID, "Room ID and player name are required")
		return
	}

	code := normalizeRoomCode(roomCode)
	g, ok := r.rooms[code]
	if !ok {
		r.sendError(playerID, "Room not found. Please check the room code.")
		return
	}
	if err := g.AddPlayer(playerID, playerName); err != nil {
		r.sendError(playerID, err.Error())
		return
	}
	r.playerRooms[playerID] = code
	r.cancelDeleteTimer(code)

	r.log.WithFields(logrus.Fields{"room": code, "player": playerName}).Info("player joined")
	journal.LogCommand(code, playerID, "joinRoom")
	r.updateGauges()

	state := g.Snapshot()
	hand := g.PlayerHand(playerID)
	r.broadcaster.Send(playerID, game.Event{Type: game.EventJoinedRoom, RoomID: code, State: &state})
	r.broadcaster.Send(playerID, game.Event{Type: game.EventHandUpdate, Hand: &hand})
	r.broadcastExcept(g, playerID, game.Event{Type: game.EventGameUpdate, State: &state})
}

// SetReady updates the caller's ready flag and rebroadcasts lobby state.
func (r *Registry) SetReady(playerID uuid.UUID, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, code := r.resolveGame(playerID)
	if g == nil || !g.SetReady(playerID, ready) {
		return
	}
	journal.LogCommand(code, playerID, "setReady")
	r.broadcastState(g, game.EventGameUpdate)
}

// StartGame begins the round if the caller is the host and the lobby is
// ready; failures go back to the caller only.
func (r *Registry) StartGame(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, code := r.resolveGame(playerID)
	if g == nil {
		return
	}
	if err := g.Start(playerID); err != nil {
		r.sendError(playerID, err.Error())
		return
	}

	r.log.WithFields(logrus.Fields{"room": code, "players": len(g.Players)}).Info("game started")
	journal.LogCommand(code, playerID, "startGame")

	state := g.Snapshot()
	r.broadcast(g, game.Event{Type: game.EventGameStarted, State: &state})
	for _, p := range g.Players {
		hand := g.PlayerHand(p.ID)
		r.broadcaster.Send(p.ID, game.Event{Type: game.EventHandUpdate, Hand: &hand})
	}
}

// PlayCard applies a card play and broadcasts the outcome.
func (r *Registry) PlayCard(playerID uuid.UUID, card models.Card, chosenColor models.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, code := r.resolveGame(playerID)
	if g == nil {
		return
	}
	res, err := g.PlayCard(playerID, card, chosenColor)
	if err != nil {
		r.sendError(playerID, err.Error())
		return
	}
	journal.LogCommand(code, playerID, "playCard")

	r.broadcastState(g, game.EventGameUpdate)
	for _, p := range g.Players {
		hand := g.PlayerHand(p.ID)
		r.broadcaster.Send(p.ID, game.Event{Type: game.EventHandUpdate, Hand: &hand})
	}
	if res.Message != "" {
		r.broadcast(g, game.Event{Type: game.EventGameMessage, Message: res.Message})
	}
	if res.Winner != uuid.Nil {
		winner := res.Winner
		r.broadcast(g, game.Event{Type: game.EventGameWon, Winner: &winner})
		r.recordFinishedGame(g, code)
	}
}

// DrawCard draws for the caller: the full pending penalty if one is
// stacked, a single card otherwise.
func (r *Registry) DrawCard(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, code := r.resolveGame(playerID)
	if g == nil {
		return
	}
	res, err := g.DrawCard(playerID)
	if err != nil {
		r.sendError(playerID, err.Error())
		return
	}
	journal.LogCommand(code, playerID, "drawCard")

	hand := g.PlayerHand(playerID)
	switch {
	case res.Penalty:
		r.broadcaster.Send(playerID, game.Event{Type: game.EventHandUpdate, Hand: &hand})
		r.broadcaster.Send(playerID, game.Event{Type: game.EventCardsDrawn, Cards: res.Cards})
	case len(res.Cards) == 1:
		card := res.Cards[0]
		r.broadcaster.Send(playerID, game.Event{Type: game.EventHandUpdate, Hand: &hand})
		r.broadcaster.Send(playerID, game.Event{Type: game.EventCardDrawn, Card: &card})
	default:
		// Deck and discard both empty: nothing was drawn and the turn did
		// not move, so there is nothing to tell the room.
		r.log.WithField("room", code).Warn("draw yielded no card; deck and discard exhausted")
		return
	}
	r.broadcastState(g, game.EventGameUpdate)
}

// CallUno registers the caller's UNO declaration and announces it.
func (r *Registry) CallUno(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, code := r.resolveGame(playerID)
	if g == nil {
		return
	}
	if err := g.CallUno(playerID); err != nil {
		r.sendError(playerID, err.Error())
		return
	}
	journal.LogCommand(code, playerID, "callUno")

	id := playerID
	r.broadcast(g, game.Event{
		Type:       game.EventUnoCalled,
		PlayerID:   &id,
		PlayerName: g.PlayerName(playerID),
	})
}

// PlayAgain casts the caller's post-game vote. A unanimous tally schedules
// an automatic lobby reset after the configured delay.
func (r *Registry) PlayAgain(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, code := r.resolveGame(playerID)
	if g == nil {
		return
	}
	status, err := g.VotePlayAgain(playerID)
	if err != nil {
		r.sendError(playerID, err.Error())
		return
	}
	journal.LogCommand(code, playerID, "playAgain")

	r.broadcast(g, voteEvent(game.EventPlayAgainVote, status))
	if status.AllVoted {
		r.scheduleAutoReset(code)
	}
}

// PlayAgainStatus reports the current tally to the caller only.
func (r *Registry) PlayAgainStatus(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, _ := r.resolveGame(playerID)
	if g == nil {
		return
	}
	r.broadcaster.Send(playerID, voteEvent(game.EventPlayAgainStatus, g.PlayAgainStatus()))
}

// StartNewGame resets the room immediately for a caller who has already
// voted to play again. Calls from non-voters are ignored.
func (r *Registry) StartNewGame(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, code := r.resolveGame(playerID)
	if g == nil || !g.GameEnded || !g.HasVoted(playerID) {
		return
	}
	r.cancelResetTimer(code)
	journal.LogCommand(code, playerID, "startNewGame")
	g.Reset()
	r.broadcastState(g, game.EventGameReset)
}

// LeaveRoom handles an explicit leave command.
func (r *Registry) LeaveRoom(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removePlayerLocked(playerID, true)
}

// HandleDisconnect handles a dropped connection. Identical to leaving,
// except the departure announcement is suppressed in the lobby.
func (r *Registry) HandleDisconnect(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removePlayerLocked(playerID, false)
}

// removePlayerLocked unseats the player and applies the churn policy:
// schedule deletion of an empty room, force-end a game left with a single
// player, or just announce the departure. Assumes the lock is held.
func (r *Registry) removePlayerLocked(playerID uuid.UUID, explicit bool) {
	code, ok := r.playerRooms[playerID]
	if !ok {
		return
	}
	delete(r.playerRooms, playerID)
	g, ok := r.rooms[code]
	if !ok {
		return
	}

	wasStarted := g.GameStarted
	name, removed := g.RemovePlayer(playerID)
	if !removed {
		return
	}
	journal.LogCommand(code, playerID, "leaveRoom")
	r.log.WithFields(logrus.Fields{"room": code, "player": name, "explicit": explicit}).Info("player left")

	if len(g.Players) > 0 && (explicit || wasStarted) {
		r.broadcast(g, game.Event{Type: game.EventPlayerLeft, PlayerName: name})
	}

	switch {
	case len(g.Players) == 0:
		r.scheduleDeletion(code)
	case len(g.Players) == 1 && wasStarted:
		// Single-player continuation is not supported: force-end and
		// return the last player to the lobby.
		r.cancelResetTimer(code)
		g.Reset()
		r.broadcast(g, game.Event{
			Type:    game.EventGameEndedSinglePlayer,
			Message: "All other players left. Returning to lobby...",
		})
		r.broadcastState(g, game.EventGameUpdate)
	default:
		r.broadcastState(g, game.EventGameUpdate)
	}
	r.updateGauges()
}

// scheduleDeletion arms the grace-period timer for an empty room. A join
// before it fires cancels it; the callback re-checks emptiness under the
// lock so a revived room is never torn down.
func (r *Registry) scheduleDeletion(code string) {
	r.cancelDeleteTimer(code)
	r.log.WithFields(logrus.Fields{"room": code, "grace": r.cfg.GracePeriod}).Info("room empty, scheduling deletion")
	r.deleteTimers[code] = time.AfterFunc(r.cfg.GracePeriod, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.deleteTimers, code)
		g, ok := r.rooms[code]
		if !ok || len(g.Players) > 0 {
			return
		}
		r.cancelResetTimer(code)
		delete(r.rooms, code)
		r.log.WithField("room", code).Info("deleted empty room")
		r.updateGauges()
	})
}

// scheduleAutoReset arms the post-vote reset timer. The callback re-checks
// that the room still exists, still has players, and is still in the ended
// state before resetting.
func (r *Registry) scheduleAutoReset(code string) {
	r.cancelResetTimer(code)
	r.resetTimers[code] = time.AfterFunc(r.cfg.ResetDelay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.resetTimers, code)
		g, ok := r.rooms[code]
		if !ok || !g.GameEnded || len(g.Players) == 0 {
			return
		}
		g.Reset()
		r.log.WithField("room", code).Info("all players voted, room reset")
		r.broadcastState(g, game.EventGameReset)
	})
}

func (r *Registry) cancelDeleteTimer(code string) {
	if t, ok := r.deleteTimers[code]; ok {
		t.Stop()
		delete(r.deleteTimers, code)
	}
}

func (r *Registry) cancelResetTimer(code string) {
	if t, ok := r.resetTimers[code]; ok {
		t.Stop()
		delete(r.resetTimers, code)
	}
}

// Game returns the live game for a room code, if any.
func (r *Registry) Game(code string) (*game.UnoGame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.rooms[normalizeRoomCode(code)]
	return g, ok
}

// RoomInfo is a debug view of one live room.
type RoomInfo struct {
	RoomID      string   `json:"roomId"`
	PlayerCount int      `json:"playerCount"`
	GameStarted bool     `json:"gameStarted"`
	Players     []string `json:"players"`
}

// DebugRooms lists every live room for the debug endpoint.
func (r *Registry) DebugRooms() []RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]RoomInfo, 0, len(r.rooms))
	for code, g := range r.rooms {
		names := make([]string, len(g.Players))
		for i, p := range g.Players {
			names[i] = p.Name
		}
		infos = append(infos, RoomInfo{
			RoomID:      code,
			PlayerCount: len(g.Players),
			GameStarted: g.GameStarted,
			Players:     names,
		})
	}
	return infos
}

// resolveGame maps the caller's connection onto its room's game. Assumes
// the lock is held.
func (r *Registry) resolveGame(playerID uuid.UUID) (*game.UnoGame, string) {
	code, ok := r.playerRooms[playerID]
	if !ok {
		return nil, ""
	}
	g, ok := r.rooms[code]
	if !ok {
		return nil, ""
	}
	return g, code
}

// broadcast sends an event to every player in the game.
func (r *Registry) broadcast(g *game.UnoGame, ev game.Event) {
	for _, p := range g.Players {
		r.broadcaster.Send(p.ID, ev)
	}
}

// broadcastExcept sends an event to every player but one.
func (r *Registry) broadcastExcept(g *game.UnoGame, except uuid.UUID, ev game.Event) {
	for _, p := range g.Players {
		if p.ID != except {
			r.broadcaster.Send(p.ID, ev)
		}
	}
}

// broadcastState snapshots the game and sends it to the whole room.
func (r *Registry) broadcastState(g *game.UnoGame, t game.EventType) {
	state := g.Snapshot()
	r.broadcast(g, game.Event{Type: t, State: &state})
}

// sendError delivers a validation failure to the offending caller only.
func (r *Registry) sendError(playerID uuid.UUID, msg string) {
	r.broadcaster.Send(playerID, game.Event{Type: game.EventError, Message: msg})
}

// recordFinishedGame updates metrics and persists the match result when a
// database is configured. Assumes the lock is held; the insert itself runs
// on its own goroutine so the command path never waits on Postgres.
func (r *Registry) recordFinishedGame(g *game.UnoGame, code string) {
	if r.mon != nil {
		r.mon.IncGamesCompleted()
	}
	result := database.MatchResult{
		RoomCode:    code,
		WinnerName:  g.PlayerName(g.Winner),
		PlayerCount: len(g.Players),
		Duration:    time.Since(g.StartedAt),
	}
	logger := r.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordMatch(ctx, result); err != nil {
			logger.WithError(err).Warn("failed to record match result")
		}
	}()
}

// updateGauges refreshes the room/player gauges. Assumes the lock is held.
func (r *Registry) updateGauges() {
	if r.mon == nil {
		return
	}
	r.mon.SetActiveRooms(len(r.rooms))
	r.mon.SetOnlinePlayers(len(r.playerRooms))
}

func voteEvent(t game.EventType, status game.VoteStatus) game.Event {
	return game.Event{
		Type:         t,
		Votes:        status.Votes,
		TotalPlayers: status.TotalPlayers,
		VotedPlayers: status.VotedPlayers,
		AllVoted:     status.AllVoted,
	}
}
