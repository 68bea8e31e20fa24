package engine

import (
	"context"
	"fmt"

	"dicehook/pkg/dice"
	"dicehook/pkg/slot"
)

// pool is the set of active slots sharing one die size.
type pool struct {
	dieSize int
	members []int // indexes into the registry listing
}

// CheckAll evaluates every registered slot in one pass and returns one
// outcome per slot, in registry order.
//
// Slots with the same die size share a roll pool: if any member of the pool
// has dice to roll, exactly one base roll is drawn for the pool and becomes
// the first die of every rolling member; members with more than one die add
// their own independent draws after it. Two single-die slots with distinct
// exact targets on the same die can therefore never both fire in one pass.
// Post-trigger effects still apply to each slot on its own.
func (e *Engine) CheckAll(ctx context.Context, sess Session) ([]Outcome, error) {
	cfgs, err := e.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("check all: %w", err)
	}

	results := make([]Outcome, len(cfgs))
	counts := make([]int, len(cfgs))

	var pools []*pool
	byDie := map[int]*pool{}

	for i, cfg := range cfgs {
		results[i] = inert(cfg.Name)

		blocked, err := e.onCooldown(ctx, cfg, sess)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}

		count, err := e.diceCount(ctx, cfg, sess, true)
		if err != nil {
			return nil, err
		}
		counts[i] = count.Dice

		p, ok := byDie[cfg.DieSize]
		if !ok {
			p = &pool{dieSize: cfg.DieSize}
			byDie[cfg.DieSize] = p
			pools = append(pools, p)
		}
		p.members = append(p.members, i)
	}

	for _, p := range pools {
		if err := e.rollPool(ctx, p, cfgs, counts, results, sess); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// rollPool draws the shared base roll for p and evaluates its members.
func (e *Engine) rollPool(ctx context.Context, p *pool, cfgs []slot.Config, counts []int, results []Outcome, sess Session) error {
	rolling := false
	for _, i := range p.members {
		if counts[i] > 0 {
			rolling = true
			break
		}
	}
	if !rolling || p.dieSize <= 0 {
		return nil
	}

	base := dice.Roll(e.src, 1, p.dieSize)[0]

	for _, i := range p.members {
		if counts[i] <= 0 {
			continue
		}
		rolls := append([]int{base}, dice.Roll(e.src, counts[i]-1, p.dieSize)...)

		out, err := e.evaluate(ctx, cfgs[i], sess, counts[i], rolls)
		if err != nil {
			return err
		}
		results[i] = out
	}
	return nil
}
