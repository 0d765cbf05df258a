package domain

import "time"

// Action is a task a player may perform. The turn state machine queues
// actions as ExpectedMove entries; incoming requests must match the head.
type Action string

const (
	ActionFoundingRoll        Action = "founding-roll"
	ActionFoundingSettlement1 Action = "founding-settlement-1"
	ActionFoundingSettlement2 Action = "founding-settlement-2"
	ActionFoundingRoad1       Action = "founding-road-1"
	ActionFoundingRoad2       Action = "founding-road-2"
	ActionRoll                Action = "roll"
	ActionBuild               Action = "build"
	ActionBuildRoad           Action = "build-road"
	ActionDrop                Action = "drop"
	ActionRob                 Action = "rob"
	ActionOffer               Action = "offer"
	ActionAccept              Action = "accept"
	ActionMonopoly            Action = "monopoly"
	ActionYearOfPlenty        Action = "year-of-plenty"
)

var knownActions = map[Action]bool{
	ActionFoundingRoll: true, ActionFoundingSettlement1: true,
	ActionFoundingSettlement2: true, ActionFoundingRoad1: true,
	ActionFoundingRoad2: true, ActionRoll: true, ActionBuild: true,
	ActionBuildRoad: true, ActionDrop: true, ActionRob: true,
	ActionOffer: true, ActionAccept: true, ActionMonopoly: true,
	ActionYearOfPlenty: true,
}

// NewDevelopmentCard is the developmentCard payload value that buys a card
// instead of playing one.
const NewDevelopmentCard = "new"

// BuildingRequest locates and types a building in a move payload.
type BuildingRequest struct {
	X    int          `json:"x"`
	Y    int          `json:"y"`
	Z    int          `json:"z"`
	Side Side         `json:"side"`
	Type BuildingType `json:"type"`
}

// Coordinate returns the request's tile coordinate.
func (b BuildingRequest) Coordinate() HexCoordinate {
	return HexCoordinate{b.X, b.Y, b.Z}
}

// RobRequest names the robber's destination tile and an optional player to
// steal from.
type RobRequest struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Z      int    `json:"z"`
	Target string `json:"target,omitempty"`
}

// Coordinate returns the robber's destination tile.
func (r RobRequest) Coordinate() HexCoordinate {
	return HexCoordinate{r.X, r.Y, r.Z}
}

// MoveRequest is the polymorphic move payload: a tagged union keyed by
// Action, each action reading only its relevant fields.
type MoveRequest struct {
	Action          Action          `json:"action"`
	Building        *BuildingRequest `json:"building,omitempty"`
	Resources       map[Resource]int `json:"resources,omitempty"`
	Rob             *RobRequest      `json:"rob,omitempty"`
	Partner         string           `json:"partner,omitempty"`
	DevelopmentCard string           `json:"developmentCard,omitempty"`
	Roll            int              `json:"roll,omitempty"`
}

// Validate rejects malformed requests before any game state is read.
func (m *MoveRequest) Validate() error {
	if !knownActions[m.Action] {
		return Validationf("unknown action %q", m.Action)
	}
	if m.Roll != 0 && (m.Roll < 2 || m.Roll > 12) {
		return Validationf("roll %d out of range", m.Roll)
	}
	if m.Building != nil {
		b := m.Building
		if b.X+b.Y+b.Z != 0 {
			return Validationf("coordinate (%d,%d,%d) violates x+y+z=0", b.X, b.Y, b.Z)
		}
		switch b.Type {
		case Road, Settlement, City:
		default:
			return Validationf("unknown building type %q", b.Type)
		}
		if !b.Side.IsCorner() && !b.Side.IsEdge() {
			return Validationf("side %d is not a corner or edge", b.Side)
		}
	}
	if m.Rob != nil {
		r := m.Rob
		if r.X+r.Y+r.Z != 0 {
			return Validationf("coordinate (%d,%d,%d) violates x+y+z=0", r.X, r.Y, r.Z)
		}
	}
	for r := range m.Resources {
		if !IsResource(r) {
			return Validationf("unknown resource %q", r)
		}
	}
	if m.DevelopmentCard != "" && m.DevelopmentCard != NewDevelopmentCard {
		switch CardType(m.DevelopmentCard) {
		case Knight, VictoryPoint, Monopoly, RoadBuilding, YearOfPlenty:
		default:
			return Validationf("unknown development card %q", m.DevelopmentCard)
		}
	}
	return nil
}

// Move is an immutable move-log entry, appended after every accepted move.
type Move struct {
	ID         string      `json:"id"`
	GameID     string      `json:"gameId"`
	Player     string      `json:"player"`
	Action     Action      `json:"action"`
	Request    MoveRequest `json:"request"`
	BuildingID string      `json:"buildingId,omitempty"`
	Roll       int         `json:"roll,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}
