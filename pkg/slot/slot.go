// Package slot defines the configuration of a named trigger slot: which die
// it rolls, what counts as a hit, how its dice count is derived and what
// happens after it fires.
package slot

import (
	"context"

	"dicehook/pkg/dice"
)

// Kind selects how a slot derives its dice count.
type Kind string

const (
	// KindAccumulator grows one die per AccumulationRate turns since the last trigger.
	KindAccumulator Kind = "accumulator"
	// KindFixed always rolls FixedCount dice.
	KindFixed Kind = "fixed"
	// KindSingle always rolls one die.
	KindSingle Kind = "single"
)

// CooldownPolicy controls whether a slot can fire more than once per session.
type CooldownPolicy string

const (
	// CooldownPerSession allows one trigger per session until cleared.
	CooldownPerSession CooldownPolicy = "per-session"
	// CooldownNone never blocks.
	CooldownNone CooldownPolicy = "none"
)

// DepthSource supplies a slot-specific depth instead of the session's.
// The boolean is false when no depth is available.
type DepthSource interface {
	Depth(ctx context.Context, sessionID string) (int, bool)
}

// DepthSourceFunc adapts a function to DepthSource.
type DepthSourceFunc func(ctx context.Context, sessionID string) (int, bool)

// Depth calls f.
func (f DepthSourceFunc) Depth(ctx context.Context, sessionID string) (int, bool) {
	return f(ctx, sessionID)
}

// Config is one registered trigger definition.
type Config struct {
	Name                string          `yaml:"name" json:"name" validate:"required,slotname"`
	DieSize             int             `yaml:"die_size" json:"die_size" validate:"gte=1"`
	Target              int             `yaml:"target" json:"target"`
	TargetMode          dice.TargetMode `yaml:"target_mode" json:"target_mode" validate:"oneof=exact gte lte"`
	Kind                Kind            `yaml:"kind" json:"kind" validate:"oneof=accumulator fixed single"`
	AccumulationRate    int             `yaml:"accumulation_rate" json:"accumulation_rate" validate:"gte=1"`
	MaxDice             int             `yaml:"max_dice" json:"max_dice" validate:"gte=0"`
	FixedCount          int             `yaml:"fixed_count" json:"fixed_count" validate:"gte=0"`
	Cooldown            CooldownPolicy  `yaml:"cooldown" json:"cooldown" validate:"oneof=per-session none"`
	ClearOnSessionStart bool            `yaml:"clear_on_session_start" json:"clear_on_session_start"`
	ResetOnTrigger      bool            `yaml:"reset_on_trigger" json:"reset_on_trigger"`
	Message             string          `yaml:"on_trigger_message" json:"on_trigger_message"`

	// DepthSource is never persisted.
	DepthSource DepthSource `yaml:"-" json:"-"`
}

// Defaults returns the configuration a newly registered slot starts from.
func Defaults(name string) Config {
	return Config{
		Name:                name,
		DieSize:             20,
		Target:              20,
		TargetMode:          dice.ModeExact,
		Kind:                KindAccumulator,
		AccumulationRate:    7,
		MaxDice:             10,
		FixedCount:          1,
		Cooldown:            CooldownPerSession,
		ClearOnSessionStart: true,
		ResetOnTrigger:      true,
		Message:             DefaultMessage,
	}
}

// PerSession reports whether the slot is limited to one trigger per session.
func (c Config) PerSession() bool {
	return c.Cooldown == CooldownPerSession
}

// Patch carries the fields supplied to a register call. Nil fields keep the
// recorded (or default) value.
type Patch struct {
	DieSize             *int
	Target              *int
	TargetMode          *dice.TargetMode
	Kind                *Kind
	AccumulationRate    *int
	MaxDice             *int
	FixedCount          *int
	Cooldown            *CooldownPolicy
	ClearOnSessionStart *bool
	ResetOnTrigger      *bool
	Message             *string
}

// Apply merges p over base and returns the result.
func (p Patch) Apply(base Config) Config {
	out := base
	if p.DieSize != nil {
		out.DieSize = *p.DieSize
	}
	if p.Target != nil {
		out.Target = *p.Target
	}
	if p.TargetMode != nil {
		out.TargetMode = *p.TargetMode
	}
	if p.Kind != nil {
		out.Kind = *p.Kind
	}
	if p.AccumulationRate != nil {
		out.AccumulationRate = *p.AccumulationRate
	}
	if p.MaxDice != nil {
		out.MaxDice = *p.MaxDice
	}
	if p.FixedCount != nil {
		out.FixedCount = *p.FixedCount
	}
	if p.Cooldown != nil {
		out.Cooldown = *p.Cooldown
	}
	if p.ClearOnSessionStart != nil {
		out.ClearOnSessionStart = *p.ClearOnSessionStart
	}
	if p.ResetOnTrigger != nil {
		out.ResetOnTrigger = *p.ResetOnTrigger
	}
	if p.Message != nil {
		out.Message = *p.Message
	}
	return out
}
