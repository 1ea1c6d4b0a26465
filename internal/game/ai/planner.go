package ai

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/environment"
)

// Doctrine adjusts an intelligence-based decision before the terrain override
// is applied. Implementations must not draw from any random source, so that a
// doctrine never shifts the engine's random sequence.
type Doctrine interface {
	// Advise returns the adjusted decision for ws.Self. An error leaves the
	// decision unchanged.
	Advise(ws *WorldState, d Decision) (Decision, error)
}

// Thresholds are the intelligence-roll cut-offs and the cover health trigger.
type Thresholds struct {
	Advanced    float64 `mapstructure:"advanced"`
	Basic       float64 `mapstructure:"basic"`
	CoverHealth float64 `mapstructure:"cover_health"` // percent; advanced combatants below it seek cover
}

// DefaultThresholds returns the stock cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Advanced: 70, Basic: 40, CoverHealth: 60}
}

// Planner produces tactical decisions.
type Planner struct {
	Thresholds Thresholds
	Doctrine   Doctrine // optional
}

// NewPlanner constructs a Planner with DefaultThresholds. doctrine may be nil.
func NewPlanner(doctrine Doctrine) *Planner {
	return &Planner{Thresholds: DefaultThresholds(), Doctrine: doctrine}
}

// Decide draws one intelligence roll from src and returns the combatant's
// decision. Doctrine advice is applied after the intelligence defaults and the
// terrain override is applied last.
//
// Precondition: ws and ws.Self must not be nil.
// Postcondition: exactly one Float64 is drawn from src.
func (p *Planner) Decide(ws *WorldState, src dice.Source) Decision {
	if ws == nil || ws.Self == nil {
		panic("ai.Planner.Decide: ws and ws.Self must not be nil")
	}
	roll := ws.Self.Intelligence * (0.5 + 0.5*src.Float64())
	allies := ws.SideSize()
	foes := len(ws.LivingEnemies())
	superior := allies > foes
	outnumbered := foes > allies

	d := Decision{Roll: roll}
	var why []string
	switch {
	case roll >= p.Thresholds.Advanced:
		hurt := ws.Self.HealthPercent() < p.Thresholds.CoverHealth
		d.TakeCover = hurt || outnumbered
		d.AttemptFlank = superior
		d.UseTerrainAdvantage = true
		if superior {
			d.Target = TargetWeakest
		} else {
			d.Target = TargetStrongest
		}
		why = append(why, fmt.Sprintf("advanced tactics (roll %.0f)", roll))
		if hurt {
			why = append(why, "wounded")
		}
		if outnumbered {
			why = append(why, "outnumbered")
		}
		if superior {
			why = append(why, "numbers advantage")
		}
	case roll >= p.Thresholds.Basic:
		d.TakeCover = true
		d.Target = TargetClosest
		why = append(why, fmt.Sprintf("basic tactics (roll %.0f)", roll))
	default:
		d.Target = TargetRandom
		why = append(why, fmt.Sprintf("undirected aggression (roll %.0f)", roll))
	}

	if p.Doctrine != nil && ws.Self.Doctrine != "" {
		if advised, err := p.Doctrine.Advise(ws, d); err == nil {
			advised.Roll = roll
			d = advised
			why = append(why, "doctrine "+ws.Self.Doctrine)
		} else {
			why = append(why, "doctrine "+ws.Self.Doctrine+" failed")
		}
	}

	switch ws.Terrain {
	case environment.Enclosed:
		d.TakeCover = true
		d.AttemptFlank = false
		why = append(why, "enclosed terrain")
	case environment.Open:
		d.TakeCover = false
		d.UseTerrainAdvantage = false
		why = append(why, "open terrain")
	}
	d.Rationale = strings.Join(why, "; ")
	return d
}
