package app

import "pioneers/internal/domain"

// EventKind identifies emitted game events for external dispatch.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventDiceRolled       EventKind = "dice_rolled"
	EventResourcesGiven   EventKind = "resources_given"
	EventBuildingPlaced   EventKind = "building_placed"
	EventCardBought       EventKind = "card_bought"
	EventCardPlayed       EventKind = "card_played"
	EventTradeExecuted    EventKind = "trade_executed"
	EventRobberMoved      EventKind = "robber_moved"
	EventResourcesStolen  EventKind = "resources_stolen"
	EventResourcesDropped EventKind = "resources_dropped"
	EventTitleTransferred EventKind = "title_transferred"
	EventTurnEnded        EventKind = "turn_ended"
	EventPlayerRemoved    EventKind = "player_removed"
	EventGameWon          EventKind = "game_won"
)

// Event is a committed-mutation notification with optional targeted
// recipients; an empty audience broadcasts to the whole game.
type Event struct {
	Kind     EventKind
	Payload  any
	Audience []string
}

type GameStartedPayload struct {
	GameID  string   `json:"gameId"`
	Players []string `json:"players"`
}

type DiceRolledPayload struct {
	Player string `json:"player"`
	Roll   int    `json:"roll"`
}

type ResourcesGivenPayload struct {
	Grants map[string]map[domain.Resource]int `json:"grants"`
}

type BuildingPlacedPayload struct {
	Building *domain.Building `json:"building"`
}

type CardBoughtPayload struct {
	Player string          `json:"player"`
	Card   domain.CardType `json:"card"`
}

type CardPlayedPayload struct {
	Player string          `json:"player"`
	Card   domain.CardType `json:"card"`
}

type TradeExecutedPayload struct {
	Trade *domain.TradeFacts `json:"trade"`
}

type RobberMovedPayload struct {
	Player string              `json:"player"`
	Tile   domain.HexCoordinate `json:"tile"`
	Victim string              `json:"victim,omitempty"`
}

type ResourcesStolenPayload struct {
	Theft *domain.Theft `json:"theft"`
}

type ResourcesDroppedPayload struct {
	Player  string                  `json:"player"`
	Dropped map[domain.Resource]int `json:"dropped"`
}

type TitleTransferredPayload struct {
	Transfer domain.TitleTransfer `json:"transfer"`
}

type TurnEndedPayload struct {
	Player string `json:"player"`
	Next   string `json:"next"`
}

type PlayerRemovedPayload struct {
	Player string `json:"player"`
}

type GameWonPayload struct {
	Winner string `json:"winner"`
}
