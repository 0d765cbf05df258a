package domain

// bankTrade exchanges resources with the bank at a fixed ratio. The delta
// map must carry exactly one positive entry (the resource received) and one
// negative entry whose magnitude sets the ratio: 4 is always allowed, 3
// needs a generic harbor, 2 needs a harbor for the offered resource.
func (g *Game) bankTrade(actor *Player, delta map[Resource]int, res *MoveResult) error {
	var offered Resource
	offeredCount, receivedCount := 0, 0
	for r, d := range delta {
		switch {
		case d > 0:
			if receivedCount != 0 {
				return IllegalMovef("a bank trade receives exactly one resource type")
			}
			receivedCount = d
		case d < 0:
			if offeredCount != 0 {
				return IllegalMovef("a bank trade offers exactly one resource type")
			}
			offered, offeredCount = r, -d
		}
	}
	if receivedCount == 0 || offeredCount == 0 {
		return IllegalMovef("a bank trade needs one offered and one received resource")
	}
	if receivedCount != 1 {
		return IllegalMovef("the bank trades %d:1", offeredCount)
	}

	switch offeredCount {
	case 4:
		// Always allowed.
	case 3:
		if !g.hasHarborAccess(actor.ID, nil) {
			return IllegalMovef("a 3:1 trade needs a building at a harbor")
		}
	case 2:
		if !g.hasHarborAccess(actor.ID, &offered) {
			return IllegalMovef("a 2:1 trade needs a building at a %s harbor", offered)
		}
	default:
		return IllegalMovef("the bank trades at 4:1, 3:1 or 2:1")
	}

	if err := actor.ApplyResourceDelta(delta); err != nil {
		return err
	}
	g.touch(actor)

	res.Trade = &TradeFacts{Giver: actor.ID, Taker: BankPartner, Deltas: delta}
	return nil
}

// hasHarborAccess reports whether the player owns a settlement or city on a
// corner of a harbor edge. A nil resource asks for a generic 3:1 harbor;
// otherwise the harbor must trade the given resource.
func (g *Game) hasHarborAccess(playerID string, resource *Resource) bool {
	for _, h := range g.Board.Harbors {
		if resource == nil {
			if h.Resource != nil {
				continue
			}
		} else if h.Resource == nil || *h.Resource != *resource {
			continue
		}
		for _, c := range h.Edge.Corners() {
			if g.hasBuildingOn(c, playerID) {
				return true
			}
		}
	}
	return false
}

// openTrade stores the actor's offer and queues the negotiation: the
// partners (or every other active player when none is named) are expected
// to counter-offer or accept before the actor's turn resumes.
func (g *Game) openTrade(actor *Player, delta map[Resource]int, partnerID string, res *MoveResult) error {
	if !actor.CanAfford(delta) {
		return IllegalMovef("you can't afford that offer")
	}

	var partners []string
	if partnerID != "" {
		partner, err := g.Player(partnerID)
		if err != nil {
			return err
		}
		if !partner.Active {
			return IllegalMovef("player %s is no longer active", partnerID)
		}
		if partner.ID == actor.ID {
			return IllegalMovef("you can't trade with yourself")
		}
		partners = []string{partner.ID}
	} else {
		for _, id := range g.ActivePlayerIDs() {
			if id != actor.ID {
				partners = append(partners, id)
			}
		}
	}
	if len(partners) == 0 {
		return IllegalMovef("there is nobody to trade with")
	}

	actor.PreviousTradeOffer = delta
	g.touch(actor)

	g.State.insertAhead(
		ExpectedMove{Action: ActionOffer, Players: append([]string(nil), partners...)},
		ExpectedMove{Action: ActionAccept, Players: append([]string(nil), partners...)},
	)
	g.touchState()
	return nil
}

// applyOffer records a counter-offer from one of the addressed partners.
// The pending accept is re-addressed to the original offerer, who may take
// the counter or decline.
func (g *Game) applyOffer(actor *Player, req MoveRequest, res *MoveResult) error {
	if len(req.Resources) == 0 {
		return IllegalMovef("an offer needs a resource map")
	}
	if !actor.CanAfford(req.Resources) {
		return IllegalMovef("you can't afford that offer")
	}

	originator := g.tradeOriginator()
	if originator == "" {
		return IllegalMovef("there is no open trade to counter")
	}

	actor.PreviousTradeOffer = req.Resources
	g.touch(actor)

	g.State.pop()
	if head := g.State.head(); head != nil && head.Action == ActionAccept {
		head.Players = []string{originator}
	}
	g.touchState()
	return nil
}

// applyAccept settles an open trade. With a partner named, the partner's
// stored offer executes: their deltas apply to them and the mirrored deltas
// to the acceptor. With no partner the acceptor declines and is stripped
// from the negotiation entries.
func (g *Game) applyAccept(actor *Player, req MoveRequest, res *MoveResult) error {
	if req.Partner == "" {
		return g.declineTrade(actor)
	}
	if req.Partner == BankPartner {
		return IllegalMovef("the bank does not make offers")
	}
	partner, err := g.Player(req.Partner)
	if err != nil {
		return err
	}
	if len(partner.PreviousTradeOffer) == 0 {
		return IllegalMovef("%s has no open trade offer", partner.ID)
	}

	offer := partner.PreviousTradeOffer
	mirrored := make(map[Resource]int, len(offer))
	for r, d := range offer {
		mirrored[r] = -d
	}

	// Balances may have moved since the offer; both sides are re-checked
	// before anything is applied.
	if !partner.CanAfford(offer) {
		return IllegalMovef("%s can no longer afford the offer", partner.ID)
	}
	if !actor.CanAfford(mirrored) {
		return IllegalMovef("you can't afford that trade")
	}
	if err := partner.ApplyResourceDelta(offer); err != nil {
		return err
	}
	if err := actor.ApplyResourceDelta(mirrored); err != nil {
		return err
	}
	partner.PreviousTradeOffer = nil
	g.touch(partner)
	g.touch(actor)

	g.closeTrade()

	res.Trade = &TradeFacts{Giver: partner.ID, Taker: actor.ID, Deltas: offer}
	return nil
}

// declineTrade removes the actor from both negotiation entries; emptied
// entries are dropped, returning the turn to the builder.
func (g *Game) declineTrade(actor *Player) error {
	kept := g.State.ExpectedMoves[:0]
	for _, m := range g.State.ExpectedMoves {
		if m.Action == ActionOffer || m.Action == ActionAccept {
			m.Players = without(m.Players, actor.ID)
			if len(m.Players) == 0 {
				continue
			}
		}
		kept = append(kept, m)
	}
	g.State.ExpectedMoves = kept
	open := false
	for _, m := range kept {
		if m.Action == ActionOffer || m.Action == ActionAccept {
			open = true
			break
		}
	}
	if !open {
		g.clearTradeOffers()
	}
	g.touchState()
	return nil
}

// closeTrade pops the negotiation entries off the head of the queue.
func (g *Game) closeTrade() {
	for {
		head := g.State.head()
		if head == nil || (head.Action != ActionOffer && head.Action != ActionAccept) {
			break
		}
		g.State.pop()
	}
	g.clearTradeOffers()
	g.touchState()
}

// clearTradeOffers drops every stored offer once a negotiation ends, so a
// later negotiation cannot settle against a stale one.
func (g *Game) clearTradeOffers() {
	for _, p := range g.Players {
		if p.PreviousTradeOffer == nil {
			continue
		}
		p.PreviousTradeOffer = nil
		g.touch(p)
	}
}

// tradeOriginator finds the in-turn player behind the pending negotiation:
// the owner of the first build entry below the negotiation entries.
func (g *Game) tradeOriginator() string {
	for _, m := range g.State.ExpectedMoves {
		if m.Action == ActionOffer || m.Action == ActionAccept {
			continue
		}
		if m.Action == ActionBuild && len(m.Players) > 0 {
			return m.Players[0]
		}
		break
	}
	return ""
}
