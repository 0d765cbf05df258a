package domain

// Resource is one of the five producible resource types.
type Resource string

const (
	Lumber Resource = "lumber"
	Brick  Resource = "brick"
	Wool   Resource = "wool"
	Grain  Resource = "grain"
	Ore    Resource = "ore"
)

// Resources lists every resource type in a stable order.
var Resources = []Resource{Lumber, Brick, Wool, Grain, Ore}

// IsResource reports whether r names a known resource type.
func IsResource(r Resource) bool {
	switch r {
	case Lumber, Brick, Wool, Grain, Ore:
		return true
	}
	return false
}

// BuildingType is the kind of a placed building.
type BuildingType string

const (
	Road       BuildingType = "road"
	Settlement BuildingType = "settlement"
	City       BuildingType = "city"
)

// CardType is a development-card kind.
type CardType string

const (
	Knight       CardType = "knight"
	VictoryPoint CardType = "victory-point"
	Monopoly     CardType = "monopoly"
	RoadBuilding CardType = "road-building"
	YearOfPlenty CardType = "year-of-plenty"
)

// CardTypes lists every development-card kind in a stable order. Draws
// iterate this order, so a scripted randomness source is deterministic.
var CardTypes = []CardType{Knight, VictoryPoint, Monopoly, RoadBuilding, YearOfPlenty}

// BuildingCosts is the resource price of each purchasable building.
var BuildingCosts = map[BuildingType]map[Resource]int{
	Road:       {Lumber: 1, Brick: 1},
	Settlement: {Lumber: 1, Brick: 1, Wool: 1, Grain: 1},
	City:       {Ore: 3, Grain: 2},
}

// DevelopmentCardCost is the resource price of one development card.
var DevelopmentCardCost = map[Resource]int{Ore: 1, Wool: 1, Grain: 1}

// StartingStock is each player's building stock at game start.
var StartingStock = map[BuildingType]int{
	Road:       15,
	Settlement: 5,
	City:       4,
}

// deckBaseWeights is the development-card deck composition for up to four
// players; deckExtraWeights is added once per started pair of players
// beyond four.
var (
	deckBaseWeights = map[CardType]int{
		Knight:       14,
		VictoryPoint: 5,
		Monopoly:     2,
		RoadBuilding: 2,
		YearOfPlenty: 2,
	}
	deckExtraWeights = map[CardType]int{
		Knight:       6,
		VictoryPoint: 0,
		Monopoly:     1,
		RoadBuilding: 1,
		YearOfPlenty: 1,
	}
)

const (
	// LongestRoadMinimum is the shortest road network that can hold the
	// longest-road title.
	LongestRoadMinimum = 5
	// LargestArmyMinimum is the fewest revealed knights that can hold the
	// largest-army title.
	LargestArmyMinimum = 3
	// TitleBonusPoints is the victory-point bonus each title grants.
	TitleBonusPoints = 2
	// RobberRoll is the dice total that triggers dropping and robbing.
	RobberRoll = 7
	// DropThreshold is the hand size above which a robber roll forces a drop.
	DropThreshold = 7
	// DefaultVictoryPoints is the win target when the game does not set one.
	DefaultVictoryPoints = 10
	// DefaultMapRadius is the board radius when the game does not set one.
	DefaultMapRadius = 2
)

// BankPartner is the sentinel partner id meaning "trade with the bank".
const BankPartner = "bank"
