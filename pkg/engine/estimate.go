package engine

import (
	"context"
	"fmt"

	"dicehook/pkg/dice"
	"dicehook/pkg/slot"
)

// Estimate is a read-only view of what a slot would roll right now.
type Estimate struct {
	Slot        slot.Config `json:"slot"`
	Count       Count       `json:"count"`
	Probability float64     `json:"probability"`
	OnCooldown  bool        `json:"on_cooldown"`
}

// EstimateAll reports, for every registered slot, the dice count and hit
// probability the next evaluation would use. Nothing is rolled and nothing
// is written, including calibration.
func (e *Engine) EstimateAll(ctx context.Context, sess Session) ([]Estimate, error) {
	cfgs, err := e.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}

	out := make([]Estimate, 0, len(cfgs))
	for _, cfg := range cfgs {
		est := Estimate{Slot: cfg}

		est.OnCooldown, err = e.onCooldown(ctx, cfg, sess)
		if err != nil {
			return nil, err
		}
		if !est.OnCooldown {
			est.Count, err = e.diceCount(ctx, cfg, sess, false)
			if err != nil {
				return nil, err
			}
			est.Probability = dice.Probability(est.Count.Dice, cfg.DieSize, cfg.Target, cfg.TargetMode)
		}
		out = append(out, est)
	}
	return out, nil
}
