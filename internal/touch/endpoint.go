package touch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/lxzan/gws"
	"github.com/soar/touchjoy/internal/button"
	"github.com/soar/touchjoy/internal/clock"
	"github.com/soar/touchjoy/internal/gamepad"
	"github.com/soar/touchjoy/internal/stick"
	"github.com/soar/touchjoy/internal/surface"
)

const (
	maxPlayers  = 16
	playerKey   = "player"
	sessionKey  = "session"
	closeConfig = 1011
	closeInUse  = 4001
)

// Controls selects which regions a touch page gets.
type Controls struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool
	A     bool
	B     bool
}

// AllControls enables every region.
func AllControls() Controls {
	return Controls{Left: true, Right: true, Up: true, Down: true, A: true, B: true}
}

// Options configures an Endpoint.
type Options struct {
	Surface     surface.Config
	Controls    Controls
	Layout      json.RawMessage // sent to the page on connect
	MeterWindow int
	Clock       clock.Clock
}

// Endpoint is the HTTP handler for touch pages. Each connection drives its
// own control surface and reports into the pad state of the player given by
// the "player" query parameter.
type Endpoint struct {
	ctx      context.Context
	opts     Options
	changes  chan<- gamepad.PadState
	upgrader *gws.Upgrader

	mu      sync.Mutex
	players map[int]bool
}

// NewEndpoint returns an endpoint publishing pad states on changes. Sessions
// end when ctx is cancelled or their socket closes.
func NewEndpoint(ctx context.Context, opts Options, changes chan<- gamepad.PadState) *Endpoint {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	e := &Endpoint{
		ctx:     ctx,
		opts:    opts,
		changes: changes,
		players: make(map[int]bool),
	}
	e.upgrader = gws.NewUpgrader(&handler{endpoint: e}, &gws.ServerOption{
		Recovery: gws.Recovery,
		Authorize: func(r *http.Request, session gws.SessionStorage) bool {
			player, ok := parsePlayer(r.URL.Query().Get("player"))
			if !ok {
				return false
			}
			session.Store(playerKey, player)
			return true
		},
	})
	return e
}

func parsePlayer(s string) (int, bool) {
	if s == "" {
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxPlayers {
		return 0, false
	}
	return n, true
}

func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := e.upgrader.Upgrade(w, r)
	if err != nil {
		log.Printf("Touch WebSocket upgrade failed: %v", err)
		return
	}
	go socket.ReadLoop()
}

func (e *Endpoint) claim(player int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.players[player] {
		return false
	}
	e.players[player] = true
	return true
}

func (e *Endpoint) unclaim(player int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.players, player)
}

// session is one connected touch page.
type session struct {
	player   int
	socket   *gws.Conn
	surface  *surface.Surface
	recorder *gamepad.Recorder
	cancel   context.CancelFunc
}

func (e *Endpoint) open(socket *gws.Conn, player int) (*session, error) {
	s := &session{
		player:   player,
		socket:   socket,
		recorder: gamepad.NewRecorder(player, e.opts.MeterWindow, e.changes),
	}
	s.recorder.SetNowFunc(e.opts.Clock.Now)

	surf, err := surface.New(e.opts.Surface, s.callbacks(e.opts.Controls),
		surface.WithClock(e.opts.Clock),
		surface.WithCapturer(s),
	)
	if err != nil {
		return nil, err
	}
	s.surface = surf

	ctx, cancel := context.WithCancel(e.ctx)
	s.cancel = cancel
	go surf.Run(ctx)

	s.recorder.SetConnected(true)
	return s, nil
}

func (s *session) close() {
	s.cancel()
	<-s.surface.Done()
	s.recorder.SetConnected(false)
}

func (s *session) callbacks(c Controls) surface.Callbacks {
	var cb surface.Callbacks
	if c.Left {
		cb.OnLeftJoystickMove = func(dx, dy float64) { s.recorder.SetStick(gamepad.LeftStick, dx, dy) }
	}
	if c.Right {
		cb.OnRightJoystickMove = func(dx, dy float64) { s.recorder.SetStick(gamepad.RightStick, dx, dy) }
	}
	if c.Up {
		cb.OnUp = func(active bool) { s.recorder.SetButton(button.Up, active) }
	}
	if c.Down {
		cb.OnDown = func(active bool) { s.recorder.SetButton(button.Down, active) }
	}
	if c.A {
		cb.OnButtonA = func(active bool) { s.recorder.SetButton(button.A, active) }
	}
	if c.B {
		cb.OnButtonB = func(active bool) { s.recorder.SetButton(button.B, active) }
	}
	cb.OnHandle = s.handle
	cb.OnVisibility = s.visible
	return cb
}

func (s *session) handle(r surface.Region, off stick.Offset) {
	which := gamepad.LeftStick
	if r == surface.Right {
		which = gamepad.RightStick
	}
	s.recorder.SetHandle(which, off.X, off.Y)
	s.write(Message{T: TypeHandle, R: r.String(), X: off.X, Y: off.Y})
}

func (s *session) visible(on bool) {
	s.recorder.SetVisible(on)
	s.write(Message{T: TypeVisible, On: &on})
}

func (s *session) Capture(r surface.Region, pointerID int) {
	s.write(Message{T: TypeCapture, R: r.String(), ID: pointerID})
}

func (s *session) Release(r surface.Region, pointerID int) {
	s.write(Message{T: TypeRelease, R: r.String(), ID: pointerID})
}

func (s *session) write(m Message) {
	writeMessage(s.socket, m)
}

func writeMessage(socket *gws.Conn, m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("Error marshaling touch %s message: %v", m.T, err)
		return
	}
	if err := socket.WriteMessage(gws.OpcodeText, data); err != nil {
		log.Printf("Error writing touch %s message: %v", m.T, err)
	}
}

// handler receives gws connection events.
type handler struct {
	gws.BuiltinEventHandler
	endpoint *Endpoint
}

func (h *handler) OnOpen(socket *gws.Conn) {
	e := h.endpoint

	v, _ := socket.Session().Load(playerKey)
	player, _ := v.(int)

	if !e.claim(player) {
		log.Printf("Touch page rejected: player %d already attached", player)
		writeMessage(socket, Message{T: TypeError, Msg: fmt.Sprintf("player %d already has a touch surface", player)})
		socket.WriteClose(closeInUse, []byte("player in use"))
		return
	}

	if len(e.opts.Layout) > 0 {
		writeMessage(socket, Message{T: TypeLayout, Layout: e.opts.Layout})
	}

	s, err := e.open(socket, player)
	if err != nil {
		e.unclaim(player)
		log.Printf("Touch surface configuration error: %v", err)
		writeMessage(socket, Message{T: TypeError, Msg: err.Error()})
		socket.WriteClose(closeConfig, []byte("configuration error"))
		return
	}
	socket.Session().Store(sessionKey, s)

	log.Printf("Touch page connected: player %d", player)
}

func (h *handler) OnClose(socket *gws.Conn, err error) {
	v, ok := socket.Session().Load(sessionKey)
	if !ok {
		return
	}
	socket.Session().Delete(sessionKey)

	s := v.(*session)
	s.close()
	h.endpoint.unclaim(s.player)
	log.Printf("Touch page disconnected: player %d", s.player)
}

func (h *handler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	v, ok := socket.Session().Load(sessionKey)
	if !ok {
		return
	}
	s := v.(*session)

	var m Message
	if err := json.Unmarshal(message.Bytes(), &m); err != nil {
		log.Printf("Error parsing touch message: %v", err)
		return
	}

	if m.T == TypeScale {
		if err := s.surface.PostScale(m.S); err != nil {
			s.write(Message{T: TypeError, Msg: err.Error()})
		}
		return
	}

	if ev, ok := m.Event(); ok {
		s.surface.Post(ev)
	}
}
