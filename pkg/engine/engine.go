// Package engine decides, once per conversation turn, which slots fire.
//
// Each slot resolves a dice count from its kind, rolls, and compares the
// rolls with its target. CheckAll additionally groups slots by die size so
// that every slot in a group reads the same first die; see CheckAll.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dicehook/internal/logger"
	"dicehook/pkg/dice"
	"dicehook/pkg/registry"
	"dicehook/pkg/slot"
	"dicehook/pkg/state"
)

// Registry is the read side of the slot registry. Get returns
// registry.ErrNotFound for unknown names.
type Registry interface {
	Get(ctx context.Context, name string) (slot.Config, error)
	List(ctx context.Context) ([]slot.Config, error)
}

// Store persists accumulator state and cooldown markers.
type Store interface {
	state.StateStore
	state.CooldownStore
}

// Session is the context of one evaluation: who is asking, and how far
// the conversation has progressed if that is known.
type Session struct {
	ID       string
	Depth    int
	HasDepth bool
}

// WithDepth returns a copy of s carrying depth.
func (s Session) WithDepth(depth int) Session {
	s.Depth = depth
	s.HasDepth = true
	return s
}

// Outcome is the result of evaluating one slot.
type Outcome struct {
	SlotName    string  `json:"slot_name"`
	Triggered   bool    `json:"triggered"`
	Rolls       []int   `json:"rolls"`
	Best        int     `json:"best"`
	DiceCount   int     `json:"dice_count"`
	Probability float64 `json:"probability"`
}

func inert(name string) Outcome {
	return Outcome{SlotName: name, Rolls: []int{}}
}

// Engine evaluates slots against persisted state.
type Engine struct {
	slots        Registry
	store        Store
	src          dice.Source
	now          func() time.Time
	depthSources map[string]slot.DepthSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source. Defaults to dice.DefaultSource.
func WithSource(src dice.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDepthSource attaches a depth source to the slot called name. It takes
// precedence over a DepthSource set on the loaded config.
func WithDepthSource(name string, src slot.DepthSource) Option {
	return func(e *Engine) { e.depthSources[name] = src }
}

// New returns an Engine reading slots from reg and state from store.
func New(reg Registry, store Store, opts ...Option) *Engine {
	e := &Engine{
		slots:        reg,
		store:        store,
		src:          dice.DefaultSource(),
		now:          time.Now,
		depthSources: map[string]slot.DepthSource{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Check evaluates a single slot with its own independent rolls. Unknown
// slots and slots on cooldown return a non-triggered, zero-dice outcome.
func (e *Engine) Check(ctx context.Context, name string, sess Session) (Outcome, error) {
	cfg, err := e.slots.Get(ctx, name)
	if errors.Is(err, registry.ErrNotFound) {
		return inert(name), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("check %s: %w", name, err)
	}

	blocked, err := e.onCooldown(ctx, cfg, sess)
	if err != nil {
		return Outcome{}, err
	}
	if blocked {
		return inert(name), nil
	}

	count, err := e.diceCount(ctx, cfg, sess, true)
	if err != nil {
		return Outcome{}, err
	}
	if count.Dice <= 0 {
		return inert(name), nil
	}

	rolls := dice.Roll(e.src, count.Dice, cfg.DieSize)
	return e.evaluate(ctx, cfg, sess, count.Dice, rolls)
}

// SessionStart clears state and cooldown for every slot flagged
// ClearOnSessionStart and returns their names. Other slots are untouched.
func (e *Engine) SessionStart(ctx context.Context, sess Session) ([]string, error) {
	cfgs, err := e.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("session start: %w", err)
	}

	cleared := []string{}
	for _, cfg := range cfgs {
		if !cfg.ClearOnSessionStart {
			continue
		}
		if err := e.clear(ctx, cfg.Name, sess); err != nil {
			return cleared, err
		}
		cleared = append(cleared, cfg.Name)
	}

	logger.FromContext(ctx).Debug("session start", "session", sess.ID, "cleared", cleared)
	return cleared, nil
}

// Reset moves a slot's accumulator baseline to the session's depth, or
// marks it uncalibrated when the depth is unknown.
func (e *Engine) Reset(ctx context.Context, name string, sess Session) error {
	if err := slot.ValidateName(name); err != nil {
		return err
	}
	depth := state.Uncalibrated
	if sess.HasDepth {
		depth = sess.Depth
	}
	if err := state.Reset(ctx, e.store, e.key(name, sess), depth, e.now()); err != nil {
		return fmt.Errorf("reset %s: %w", name, err)
	}
	return nil
}

// Clear zeroes a slot's accumulator baseline and removes its cooldown marker.
func (e *Engine) Clear(ctx context.Context, name string, sess Session) error {
	if err := slot.ValidateName(name); err != nil {
		return err
	}
	return e.clear(ctx, name, sess)
}

func (e *Engine) clear(ctx context.Context, name string, sess Session) error {
	k := e.key(name, sess)
	if err := state.Clear(ctx, e.store, k, e.now()); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	if err := e.store.ClearCooldown(ctx, k); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	return nil
}

func (e *Engine) key(name string, sess Session) state.Key {
	return state.Key{Slot: name, Session: sess.ID}
}

func (e *Engine) onCooldown(ctx context.Context, cfg slot.Config, sess Session) (bool, error) {
	if !cfg.PerSession() {
		return false, nil
	}
	on, err := e.store.HasCooldown(ctx, e.key(cfg.Name, sess))
	if err != nil {
		return false, fmt.Errorf("check %s: %w", cfg.Name, err)
	}
	return on, nil
}

// evaluate scores rolls for cfg and applies the post-trigger side effects.
func (e *Engine) evaluate(ctx context.Context, cfg slot.Config, sess Session, count int, rolls []int) (Outcome, error) {
	out := Outcome{
		SlotName:    cfg.Name,
		Triggered:   dice.Check(rolls, cfg.Target, cfg.TargetMode),
		Rolls:       rolls,
		Best:        dice.Best(rolls),
		DiceCount:   count,
		Probability: dice.Probability(count, cfg.DieSize, cfg.Target, cfg.TargetMode),
	}
	if !out.Triggered {
		return out, nil
	}

	logger.FromContext(ctx).Info("slot triggered",
		"slot", cfg.Name, "session", sess.ID, "rolls", rolls, "dice", count, "probability", out.Probability)

	if err := e.afterTrigger(ctx, cfg, sess); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (e *Engine) afterTrigger(ctx context.Context, cfg slot.Config, sess Session) error {
	k := e.key(cfg.Name, sess)

	if cfg.Kind == slot.KindAccumulator && cfg.ResetOnTrigger {
		depth, ok := e.depthFor(ctx, cfg, sess)
		if !ok {
			depth = state.Uncalibrated
		}
		if err := state.Reset(ctx, e.store, k, depth, e.now()); err != nil {
			return fmt.Errorf("reset %s after trigger: %w", cfg.Name, err)
		}
	}

	if cfg.PerSession() {
		if err := e.store.MarkCooldown(ctx, k, e.now()); err != nil {
			return fmt.Errorf("mark cooldown %s: %w", cfg.Name, err)
		}
	}
	return nil
}
