package director

type RacerID string

const NoRacer RacerID = ""

type AIBehaviorState int

const (
	BehaviorNormal AIBehaviorState = iota
	BehaviorAggressive
	BehaviorDefensive
	BehaviorHunting
	BehaviorBlocking
	BehaviorCatchUp
	BehaviorSlowDown
	BehaviorMistake
	BehaviorRecovery
)

func (b AIBehaviorState) String() string {
	switch b {
	case BehaviorNormal:
		return "Normal"
	case BehaviorAggressive:
		return "Aggressive"
	case BehaviorDefensive:
		return "Defensive"
	case BehaviorHunting:
		return "Hunting"
	case BehaviorBlocking:
		return "Blocking"
	case BehaviorCatchUp:
		return "Catch Up"
	case BehaviorSlowDown:
		return "Slow Down"
	case BehaviorMistake:
		return "Mistake"
	case BehaviorRecovery:
		return "Recovery"
	default:
		return "Unknown"
	}
}

type PositionAdjustment int

const (
	AdjustmentNone PositionAdjustment = iota
	AdjustmentSpeedBoost
	AdjustmentSpeedReduction
	AdjustmentBetterHandling
	AdjustmentWorseHandling
	AdjustmentNitroBonus
	AdjustmentMistakeProne
)

func (a PositionAdjustment) String() string {
	switch a {
	case AdjustmentNone:
		return "None"
	case AdjustmentSpeedBoost:
		return "Speed Boost"
	case AdjustmentSpeedReduction:
		return "Speed Reduction"
	case AdjustmentBetterHandling:
		return "Better Handling"
	case AdjustmentWorseHandling:
		return "Worse Handling"
	case AdjustmentNitroBonus:
		return "Nitro Bonus"
	case AdjustmentMistakeProne:
		return "Mistake Prone"
	default:
		return "Unknown"
	}
}

// Racer is the Director's view of a single competitor. It is created by
// RacerRegistry.RegisterRacer and mutated every telemetry tick.
type Racer struct {
	ID       RacerID `json:"id"`
	Name     string  `json:"name"`
	IsPlayer bool    `json:"is_player"`
	IsActive bool    `json:"is_active"`

	StartingPosition int `json:"starting_position"`
	CurrentPosition  int `json:"current_position"`
	BestPosition     int `json:"best_position"`
	WorstPosition    int `json:"worst_position"`

	CurrentLap  int     `json:"current_lap"`
	LapProgress float64 `json:"lap_progress"`

	CurrentSpeed float64 `json:"current_speed"`
	MaxSpeed     float64 `json:"max_speed"`

	SkillRating      float64 `json:"skill_rating"`
	AggressionLevel  float64 `json:"aggression_level"`
	PerformanceLevel float64 `json:"performance_level"`

	SpeedModifier    float64 `json:"speed_modifier"`
	HandlingModifier float64 `json:"handling_modifier"`

	DistanceToLeader float64 `json:"distance_to_leader"`
	DistanceToAhead  float64 `json:"distance_to_ahead"`
	DistanceToBehind float64 `json:"distance_to_behind"`

	HasFinished bool    `json:"has_finished"`
	FinishTime  float64 `json:"finish_time"`

	PositionChanges int `json:"position_changes"`
	Takedowns       int `json:"takedowns"`
	TimesWrecked    int `json:"times_wrecked"`

	IsRival bool `json:"is_rival"`

	BehaviorState     AIBehaviorState    `json:"behavior_state"`
	CurrentAdjustment PositionAdjustment `json:"current_adjustment"`
}

// racing reports whether the racer still counts for gap and phase
// aggregation: on track and not yet over the line.
func (r *Racer) racing() bool {
	return r.IsActive && !r.HasFinished
}

// gapToAheadSeconds converts the metric gap to the car ahead into seconds
// at the chasing racer's current speed.
func (r *Racer) gapToAheadSeconds() float64 {
	return gapSeconds(r.DistanceToAhead, r.CurrentSpeed)
}

func (r *Racer) gapToBehindSeconds() float64 {
	return gapSeconds(r.DistanceToBehind, r.CurrentSpeed)
}

func gapSeconds(distance, speed float64) float64 {
	if speed < 1 {
		speed = 1
	}

	return distance / speed
}
