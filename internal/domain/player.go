package domain

// DevelopmentCard is one card in a player's hand. A bought card starts
// locked until the end of its buyer's turn; playing a card reveals it.
type DevelopmentCard struct {
	Type     CardType `json:"type"`
	Revealed bool     `json:"revealed"`
	Locked   bool     `json:"locked"`
}

// Player holds one participant's economy: resources, building stock,
// victory points, development cards and titles.
type Player struct {
	ID                 string                `json:"id"`
	Resources          map[Resource]int     `json:"resources"`
	Stock              map[BuildingType]int `json:"stock"`
	VictoryPoints      int                  `json:"victoryPoints"`
	Cards              []DevelopmentCard    `json:"cards"`
	LongestRoad        int                  `json:"longestRoad"`
	HasLongestRoad     bool                 `json:"hasLongestRoad"`
	HasLargestArmy     bool                 `json:"hasLargestArmy"`
	PreviousTradeOffer map[Resource]int     `json:"previousTradeOffer,omitempty"`
	Active             bool                 `json:"active"`
}

// NewPlayer seeds a player with full building stock and the configured
// starting resources.
func NewPlayer(id string, starting map[Resource]int) *Player {
	p := &Player{
		ID:        id,
		Resources: make(map[Resource]int, len(Resources)),
		Stock:     make(map[BuildingType]int, len(StartingStock)),
		Active:    true,
	}
	for _, r := range Resources {
		p.Resources[r] = starting[r]
	}
	for t, n := range StartingStock {
		p.Stock[t] = n
	}
	return p
}

// TotalResources returns the player's hand size across all resource types.
func (p *Player) TotalResources() int {
	total := 0
	for _, n := range p.Resources {
		total += n
	}
	return total
}

// CanAfford reports whether applying delta would keep every balance
// non-negative.
func (p *Player) CanAfford(delta map[Resource]int) bool {
	for r, d := range delta {
		if p.Resources[r]+d < 0 {
			return false
		}
	}
	return true
}

// ApplyResourceDelta applies a signed per-resource mutation atomically: if
// any resulting balance would go negative, nothing changes and an
// IllegalMove is returned.
func (p *Player) ApplyResourceDelta(delta map[Resource]int) error {
	if !p.CanAfford(delta) {
		return IllegalMovef("you can't afford that")
	}
	for r, d := range delta {
		p.Resources[r] += d
	}
	return nil
}

// Pay deducts a cost map (all positive amounts) from the player.
func (p *Player) Pay(cost map[Resource]int) error {
	delta := make(map[Resource]int, len(cost))
	for r, n := range cost {
		delta[r] = -n
	}
	return p.ApplyResourceDelta(delta)
}

// TakeFromStock consumes one building of the given type from the player's
// remaining stock.
func (p *Player) TakeFromStock(t BuildingType) error {
	if p.Stock[t] <= 0 {
		return IllegalMovef("no %s left in stock", t)
	}
	p.Stock[t]--
	return nil
}

// VisibleVictoryPoints is the score other players can see: total points
// minus unrevealed victory-point cards.
func (p *Player) VisibleVictoryPoints() int {
	visible := p.VictoryPoints
	for _, c := range p.Cards {
		if c.Type == VictoryPoint && !c.Revealed {
			visible--
		}
	}
	return visible
}

// RevealedKnights counts the player's played knight cards.
func (p *Player) RevealedKnights() int {
	n := 0
	for _, c := range p.Cards {
		if c.Type == Knight && c.Revealed {
			n++
		}
	}
	return n
}

// CardCount counts held cards of the given type, revealed or not.
func (p *Player) CardCount(t CardType) int {
	n := 0
	for _, c := range p.Cards {
		if c.Type == t {
			n++
		}
	}
	return n
}

// playableCard returns the index of an unlocked, unrevealed card of the
// given type, or -1.
func (p *Player) playableCard(t CardType) int {
	for i, c := range p.Cards {
		if c.Type == t && !c.Locked && !c.Revealed {
			return i
		}
	}
	return -1
}

// UnlockCards makes every card bought this turn playable. Called when the
// player's turn ends.
func (p *Player) UnlockCards() {
	for i := range p.Cards {
		p.Cards[i].Locked = false
	}
}
