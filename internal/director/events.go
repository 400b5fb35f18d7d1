package director

import "github.com/google/uuid"

type DramaticMoment int

const (
	MomentNone DramaticMoment = iota
	MomentCloseRace
	MomentComeback
	MomentLeadChange
	MomentPhotoFinish
	MomentUnderdog
	MomentDominance
	MomentRivalry
	MomentWreckAvoidance
	MomentPerfectLap
)

func (m DramaticMoment) String() string {
	switch m {
	case MomentNone:
		return "None"
	case MomentCloseRace:
		return "Close Race"
	case MomentComeback:
		return "Comeback"
	case MomentLeadChange:
		return "Lead Change"
	case MomentPhotoFinish:
		return "Photo Finish"
	case MomentUnderdog:
		return "Underdog"
	case MomentDominance:
		return "Dominance"
	case MomentRivalry:
		return "Rivalry"
	case MomentWreckAvoidance:
		return "Wreck Avoidance"
	case MomentPerfectLap:
		return "Perfect Lap"
	default:
		return "Unknown"
	}
}

// RaceEvent is one entry in the append-only dramatic event log. Events are
// immutable once triggered and are cleared only by ResetRace.
type RaceEvent struct {
	ID             string         `json:"id"`
	Moment         DramaticMoment `json:"moment"`
	Timestamp      float64        `json:"timestamp"`
	PrimaryRacer   RacerID        `json:"primary_racer"`
	SecondaryRacer RacerID        `json:"secondary_racer"`
	Lap            int            `json:"lap"`
	Intensity      float64        `json:"intensity"`
	Description    string         `json:"description"`
}

func newEventID() string {
	return uuid.New().String()
}

// DirectorState is the consolidated snapshot handed to the presentation
// layer each tick.
type DirectorState struct {
	Phase               RacePhase      `json:"phase"`
	TensionScore        float64        `json:"tension_score"`
	TensionLevel        RaceTension    `json:"tension_level"`
	CurrentMoment       DramaticMoment `json:"current_moment"`
	RaceProgress        float64        `json:"race_progress"`
	RaceTime            float64        `json:"race_time"`
	LeadChanges         int            `json:"lead_changes"`
	LeaderID            RacerID        `json:"leader_id"`
	PlayerID            RacerID        `json:"player_id"`
	ClosestGap          float64        `json:"closest_gap"`
	ActiveRacers        int            `json:"active_racers"`
	PlayerPerformance   float64        `json:"player_performance"`
	IsCloseRace         bool           `json:"is_close_race"`
	PhotoFinishPossible bool           `json:"photo_finish_possible"`
}
