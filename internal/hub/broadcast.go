package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/soar/touchjoy/internal/gamepad"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
	maxPlayers       = 16
)

// Broadcaster listens for pad state changes of every player and broadcasts
// them to the viewers watching that player.
type Broadcaster struct {
	hub        *Hub
	changes    <-chan gamepad.PadState
	lastStates map[int]gamepad.PadState
	deltaCount map[int]int
	seq        int64
	mu         sync.Mutex
}

func NewBroadcaster(h *Hub, changes <-chan gamepad.PadState) *Broadcaster {
	return &Broadcaster{
		hub:        h,
		changes:    changes,
		lastStates: make(map[int]gamepad.PadState),
		deltaCount: make(map[int]int),
	}
}

// Run starts the broadcaster loop until ctx is cancelled or the change
// channel is closed. Should be run in a goroutine.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case state, ok := <-b.changes:
			if !ok {
				return
			}
			b.handleChange(state)

		case <-ticker.C:
			b.syncAll()
		}
	}
}

func (b *Broadcaster) handleChange(state gamepad.PadState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	player := state.PlayerIndex
	last := b.lastStates[player]
	delta := gamepad.ComputeDelta(last, state)
	b.lastStates[player] = state

	if delta.IsEmpty() {
		return
	}

	b.seq++

	// Connection changes are announced as events carrying the full state
	if delta.Connected != nil {
		event := EventTouchDisconnected
		if state.Connected {
			event = EventTouchConnected
		}
		b.deltaCount[player] = 0
		b.send(NewEventMessage(b.seq, event, &state), player)
		return
	}

	// Send full sync periodically
	b.deltaCount[player]++
	if b.deltaCount[player] >= deltaCountSync {
		b.deltaCount[player] = 0
		b.send(NewFullMessage(b.seq, &state), player)
		return
	}
	b.send(NewDeltaMessage(b.seq, player, delta), player)
}

func (b *Broadcaster) syncAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for player, state := range b.lastStates {
		if !state.Connected {
			continue
		}
		b.seq++
		state := state
		b.send(NewFullMessage(b.seq, &state), player)
	}
}

// State returns the last known state of a player.
func (b *Broadcaster) State(playerIndex int) gamepad.PadState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked(playerIndex)
}

func (b *Broadcaster) stateLocked(playerIndex int) gamepad.PadState {
	if s, ok := b.lastStates[playerIndex]; ok {
		return s
	}
	return gamepad.PadState{PlayerIndex: playerIndex}
}

// SendInitialState sends the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	state := b.stateLocked(c.PlayerIndex())
	data, err := json.Marshal(NewFullMessage(b.seq, &state))
	if err != nil {
		log.Printf("Error marshaling initial state: %v", err)
		return
	}
	b.hub.SendTo(c, data)
}

// SelectPlayer switches the player a client is watching, confirms the switch
// and sends that player's full state.
func (b *Broadcaster) SelectPlayer(c *Client, playerIndex int) bool {
	if playerIndex < 1 || playerIndex > maxPlayers {
		return false
	}
	c.SetPlayerIndex(playerIndex)

	data, err := json.Marshal(NewPlayerSelectedMessage(playerIndex))
	if err != nil {
		log.Printf("Error marshaling player selection: %v", err)
		return false
	}
	b.hub.SendTo(c, data)
	b.SendInitialState(c)
	return true
}

// send must be called with mu held.
func (b *Broadcaster) send(msg *WSMessage, playerIndex int) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message: %v", msg.Type, err)
		return
	}
	b.hub.BroadcastToPlayer(data, playerIndex)
}
