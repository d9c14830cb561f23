// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/muddy-tui/internal/events"
	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/settings"
	"github.com/jeranaias/muddy-tui/internal/util"
)

// DefaultResponseDelay is the pause between the echo and the reply.
const DefaultResponseDelay = 100 * time.Millisecond

// ErrClosed is returned by every request after Close.
var ErrClosed = errors.New("game engine closed")

// Emitter publishes on named channels. *events.Bus satisfies it.
type Emitter interface {
	Emit(channel string, payload any) error
}

// Options configure an Engine.
type Options struct {
	Emitter  Emitter
	Settings *settings.Store
	Logger   *slog.Logger

	// ResponseDelay of zero replies immediately.
	ResponseDelay time.Duration
	MinimapRadius int

	// CommandsPerSecond <= 0 disables rate limiting.
	CommandsPerSecond float64
	CommandBurst      int

	Now func() time.Time
}

// Engine owns the world and the player. Requests may arrive from any
// goroutine; replies are processed asynchronously and pushed on the emitter.
type Engine struct {
	emitter  Emitter
	settings *settings.Store
	logger   *slog.Logger
	delay    time.Duration
	radius   int
	limiter  *rate.Limiter
	now      func() time.Time

	mu     sync.Mutex
	world  *World
	player Player
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine places the player at the world's start room.
func NewEngine(world *World, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Settings == nil {
		opts.Settings = settings.NewStore("", opts.Logger)
	}
	if opts.ResponseDelay < 0 {
		opts.ResponseDelay = 0
	}
	if opts.MinimapRadius <= 0 {
		opts.MinimapRadius = DefaultMinimapRadius
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var limiter *rate.Limiter
	if opts.CommandsPerSecond > 0 {
		burst := opts.CommandBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.CommandsPerSecond), burst)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		emitter:  opts.Emitter,
		settings: opts.Settings,
		logger:   opts.Logger,
		delay:    opts.ResponseDelay,
		radius:   opts.MinimapRadius,
		limiter:  limiter,
		now:      opts.Now,
		world:    world,
		player:   Player{Location: world.Start()},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// =============================================================================
// REQUESTS
// =============================================================================

// SendCommand echoes the command at once and processes it after the
// response delay. The reply arrives as stream messages.
func (e *Engine) SendCommand(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.wg.Add(1)
	e.mu.Unlock()

	e.emitText("> " + command)

	allowed := e.limiter == nil || e.limiter.Allow()

	go func() {
		defer e.wg.Done()

		if e.delay > 0 {
			t := time.NewTimer(e.delay)
			defer t.Stop()
			select {
			case <-e.ctx.Done():
				return
			case <-t.C:
			}
		}

		if !allowed {
			e.logger.Debug("command rate limited", "command", command)
			e.emitText(MsgTooFast)
			return
		}
		e.process(command)
	}()
	return nil
}

func (e *Engine) process(command string) {
	e.mu.Lock()
	lines, moved := Process(e.world, &e.player, command, e.now())
	loc := e.player.Location
	e.mu.Unlock()

	e.logger.Debug("processed command", "command", command, "moved", moved, "room", loc.Key())

	if moved {
		e.emitSignal(events.MinimapUpdate)
	}
	for _, line := range lines {
		e.emitText(line)
	}
}

// GetStartMessage pushes the welcome banner followed by the current room.
func (e *Engine) GetStartMessage(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	room := RoomDisplay(e.world, &e.player)
	e.mu.Unlock()

	for _, line := range append([]string{WelcomeBanner, WelcomeHint, ""}, room...) {
		e.emitText(line)
	}
	return nil
}

// GetMinimap returns a snapshot around the player.
func (e *Engine) GetMinimap(ctx context.Context) ([]minimap.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	return GenerateMinimap(e.world, &e.player, e.radius), nil
}

// GetSettings returns the current display settings.
func (e *Engine) GetSettings(ctx context.Context) (settings.Settings, error) {
	if err := ctx.Err(); err != nil {
		return settings.Settings{}, err
	}
	if e.isClosed() {
		return settings.Settings{}, ErrClosed
	}
	return e.settings.Current(), nil
}

// SaveSettings stores s after clamping it.
func (e *Engine) SaveSettings(ctx context.Context, s settings.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.isClosed() {
		return ErrClosed
	}
	saved, err := e.settings.Save(s)
	if err != nil {
		return err
	}
	e.logger.Info("settings saved", "wrap", saved.WordWrapEnabled, "length", saved.WordWrapLength)
	return nil
}

// =============================================================================
// WORLD STATE
// =============================================================================

// Location is where the player is.
func (e *Engine) Location() Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player.Location
}

// World returns the loaded world.
func (e *Engine) World() *World {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world
}

// Reload swaps in w. The player stays put if their room still exists and is
// moved to the start room otherwise.
func (e *Engine) Reload(w *World) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.world = w
	relocated := false
	if !w.Has(e.player.Location) {
		e.player.MoveTo(w.Start())
		relocated = true
	}
	loc := e.player.Location
	e.mu.Unlock()

	e.logger.Info("world reloaded", "rooms", w.Len(), "relocated", relocated, "room", loc.Key())
	e.emitSignal(events.MinimapUpdate)
}

// Flush waits until every accepted command has been answered. It must not
// race with SendCommand.
func (e *Engine) Flush() {
	e.wg.Wait()
}

// Close stops pending replies and waits for them to finish. Requests after
// Close return ErrClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// =============================================================================
// OUTPUT
// =============================================================================

// wrap applies the current word-wrap settings.
func (e *Engine) wrap(text string) string {
	s := e.settings.Current()
	if !s.WordWrapEnabled {
		return text
	}
	return strings.Join(util.WrapLines(text, s.WordWrapLength), "\n")
}

func (e *Engine) emitText(text string) {
	if e.emitter == nil {
		return
	}
	if err := e.emitter.Emit(events.StreamMessage, e.wrap(text)); err != nil {
		e.logger.Warn("failed to emit message", "error", err)
	}
}

func (e *Engine) emitSignal(channel string) {
	if e.emitter == nil {
		return
	}
	if err := e.emitter.Emit(channel, nil); err != nil {
		e.logger.Warn("failed to emit signal", "channel", channel, "error", err)
	}
}
