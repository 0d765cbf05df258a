package domain

// deckWeights returns the remaining draw weight per card type: the base
// composition, scaled up for games beyond four players, minus every card of
// that type already in any player's hand, revealed or not.
func (g *Game) deckWeights() map[CardType]int {
	extraScale := 0
	if n := len(g.Players); n > 4 {
		extraScale = (n - 4 + 1) / 2 // ceil((players-4)/2)
	}
	weights := make(map[CardType]int, len(CardTypes))
	for _, t := range CardTypes {
		w := deckBaseWeights[t] + deckExtraWeights[t]*extraScale
		for _, p := range g.Players {
			w -= p.CardCount(t)
		}
		if w < 0 {
			w = 0
		}
		weights[t] = w
	}
	return weights
}

// drawCard performs a weighted random selection over the remaining
// positive weights. A depleted deck is a Conflict: the shared pool is
// exhausted.
func (g *Game) drawCard() (CardType, error) {
	weights := g.deckWeights()
	total := 0
	for _, t := range CardTypes {
		total += weights[t]
	}
	if total == 0 {
		return "", Conflictf("the development-card deck is depleted")
	}
	pick := g.Rand.Intn(total)
	for _, t := range CardTypes {
		if pick < weights[t] {
			return t, nil
		}
		pick -= weights[t]
	}
	// Unreachable: pick < total and the weights sum to total.
	return CardTypes[len(CardTypes)-1], nil
}

// buyDevelopmentCard charges the card cost and deals one weighted random
// card, locked until the end of the buyer's turn. A victory-point card
// scores immediately but stays hidden.
func (g *Game) buyDevelopmentCard(actor *Player, res *MoveResult) error {
	if !actor.CanAfford(negate(DevelopmentCardCost)) {
		return IllegalMovef("you can't afford that")
	}
	drawn, err := g.drawCard()
	if err != nil {
		return err
	}
	if err := actor.Pay(DevelopmentCardCost); err != nil {
		return err
	}

	card := DevelopmentCard{Type: drawn, Locked: true}
	actor.Cards = append(actor.Cards, card)
	if drawn == VictoryPoint {
		actor.VictoryPoints++
	}
	g.touch(actor)

	res.DrawnCard = &card
	return nil
}

// playDevelopmentCard reveals an unlocked card and queues its follow-up
// action ahead of the build entry.
func (g *Game) playDevelopmentCard(actor *Player, cardType CardType, res *MoveResult) error {
	if cardType == VictoryPoint {
		return IllegalMovef("victory-point cards reveal themselves at the end")
	}
	idx := actor.playableCard(cardType)
	if idx < 0 {
		return IllegalMovef("you have no playable %s card", cardType)
	}
	if cardType == RoadBuilding && !g.hasRoadSite(actor) {
		return IllegalMovef("you have no room for another road")
	}

	actor.Cards[idx].Revealed = true
	g.touch(actor)
	res.PlayedCard = cardType

	switch cardType {
	case Knight:
		g.State.insertAhead(ExpectedMove{Action: ActionRob, Players: []string{actor.ID}})
		g.evaluateArmyTitle()
	case RoadBuilding:
		g.State.insertAhead(
			ExpectedMove{Action: ActionBuildRoad, Players: []string{actor.ID}},
			ExpectedMove{Action: ActionBuildRoad, Players: []string{actor.ID}},
		)
	case Monopoly:
		g.State.insertAhead(ExpectedMove{Action: ActionMonopoly, Players: []string{actor.ID}})
	case YearOfPlenty:
		g.State.insertAhead(ExpectedMove{Action: ActionYearOfPlenty, Players: []string{actor.ID}})
	}
	g.touchState()
	return nil
}

// evaluateArmyTitle mirrors the longest-road transfer logic for revealed
// knights.
func (g *Game) evaluateArmyTitle() {
	g.evaluateTitle(TitleLargestArmy, LargestArmyMinimum,
		func(p *Player) int { return p.RevealedKnights() },
		func(p *Player) bool { return p.HasLargestArmy },
		func(p *Player, held bool) { p.HasLargestArmy = held },
	)
}

// applyMonopoly collects every other player's holdings of one resource
// type. The request names the type with a single positive entry.
func (g *Game) applyMonopoly(actor *Player, req MoveRequest, res *MoveResult) error {
	if len(req.Resources) != 1 {
		return IllegalMovef("a monopoly names exactly one resource type")
	}
	var target Resource
	for r := range req.Resources {
		target = r
	}

	collected := 0
	for _, p := range g.Players {
		if p.ID == actor.ID || !p.Active {
			continue
		}
		n := p.Resources[target]
		if n == 0 {
			continue
		}
		p.Resources[target] = 0
		collected += n
		g.touch(p)
	}
	actor.Resources[target] += collected
	g.touch(actor)

	g.State.pop()
	g.touchState()

	res.Distributions = map[string]map[Resource]int{
		actor.ID: {target: collected},
	}
	return nil
}

// applyYearOfPlenty grants exactly two resources of the caster's choice
// from the bank.
func (g *Game) applyYearOfPlenty(actor *Player, req MoveRequest, res *MoveResult) error {
	total := 0
	for _, d := range req.Resources {
		if d < 0 {
			return IllegalMovef("year of plenty only gains resources")
		}
		total += d
	}
	if total != 2 {
		return IllegalMovef("year of plenty grants exactly two resources")
	}
	if err := actor.ApplyResourceDelta(req.Resources); err != nil {
		return err
	}
	g.touch(actor)

	g.State.pop()
	g.touchState()

	res.Distributions = map[string]map[Resource]int{actor.ID: req.Resources}
	return nil
}
