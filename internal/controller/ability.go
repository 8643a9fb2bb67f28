package controller

import "github.com/oakwood/tworooms/internal/model"

// EffectKind names one action an ability engine may ask the core to apply
// (§4.7: "apply/remove condition, force reveal, swap card, end round
// early, instant win for team T").
type EffectKind string

const (
	EffectApplyCondition  EffectKind = "APPLY_CONDITION"
	EffectRemoveCondition EffectKind = "REMOVE_CONDITION"
	EffectForceReveal     EffectKind = "FORCE_REVEAL"
	EffectSwapCard        EffectKind = "SWAP_CARD"
	EffectEndRoundEarly   EffectKind = "END_ROUND_EARLY"
	EffectInstantWin      EffectKind = "INSTANT_WIN"
)

// Effect is one ordered item in the list an AbilityEngine returns. The
// core applies these strictly in order, one event per effect, per the
// Open Question resolution recorded in DESIGN.md: the engine is opaque
// and individual character abilities are out of core scope (§3.5, §4.7).
type Effect struct {
	Kind       EffectKind
	PlayerID   string // subject of the effect, where applicable
	Team       string // for EffectInstantWin
	Parameters map[string]any
}

// AbilityEngine is invoked at typed trigger points (round start, round
// end, card share, reveal, become-hostage, RESOLUTION) and returns an
// ordered effect list for the core to apply (§4.7). Its internals are
// opaque to the rest of the core; the contract is this single method.
type AbilityEngine interface {
	Evaluate(g *model.Game, trigger string) ([]Effect, error)
}

// NullAbilityEngine implements AbilityEngine by never producing an
// effect. It is the Controller's default, used whenever no character set
// with live abilities is wired in.
type NullAbilityEngine struct{}

func (NullAbilityEngine) Evaluate(*model.Game, string) ([]Effect, error) { return nil, nil }
