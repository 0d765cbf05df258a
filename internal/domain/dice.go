package domain

// applyRoll resolves the head roll entry: the dice total either triggers
// the robber sequence (drop for over-limit hands, then rob, then build) or
// distributes resources and moves straight to build.
func (g *Game) applyRoll(actor *Player, res *MoveResult) error {
	roll := RollDice(g.Rand)
	if !g.Settings.RollSeven {
		for roll == RobberRoll {
			roll = RollDice(g.Rand)
		}
	}
	res.Roll = roll

	g.State.pop()
	if roll == RobberRoll {
		var overLimit []string
		for _, p := range g.Players {
			if p.Active && p.TotalResources() > DropThreshold {
				overLimit = append(overLimit, p.ID)
			}
		}
		var queued []ExpectedMove
		if len(overLimit) > 0 {
			queued = append(queued, ExpectedMove{Action: ActionDrop, Players: overLimit})
		}
		queued = append(queued,
			ExpectedMove{Action: ActionRob, Players: []string{actor.ID}},
			ExpectedMove{Action: ActionBuild, Players: []string{actor.ID}},
		)
		g.State.insertAhead(queued...)
	} else {
		res.Distributions = g.distributeRoll(roll)
		g.State.insertAhead(ExpectedMove{Action: ActionBuild, Players: []string{actor.ID}})
	}
	g.touchState()
	return nil
}

// distributeRoll computes and applies the resource grants for a dice
// total: every producing tile with that number token pays each adjacent
// settlement one unit and each adjacent city two, unless the robber sits on
// the tile. All grants are batched per player before applying; the bank is
// infinite, so a roll never fails.
func (g *Game) distributeRoll(roll int) map[string]map[Resource]int {
	grants := make(map[string]map[Resource]int)
	for _, t := range g.Board.Tiles {
		if t.Token != roll {
			continue
		}
		resource, ok := t.Type.Resource()
		if !ok {
			continue
		}
		if g.State.Robber != nil && *g.State.Robber == t.Coordinate {
			continue
		}
		for _, b := range g.Buildings {
			if b.Type == Road {
				continue
			}
			if !touchesTile(b.CornerSite(), t.Coordinate) {
				continue
			}
			units := 1
			if b.Type == City {
				units = 2
			}
			if grants[b.Owner] == nil {
				grants[b.Owner] = make(map[Resource]int)
			}
			grants[b.Owner][resource] += units
		}
	}

	for playerID, delta := range grants {
		p, err := g.Player(playerID)
		if err != nil {
			continue
		}
		for r, n := range delta {
			p.Resources[r] += n
		}
		g.touch(p)
	}
	return grants
}

// touchesTile reports whether the corner is one of the tile's six corners.
func touchesTile(c Corner, tile HexCoordinate) bool {
	for _, t := range c.Tiles() {
		if t == tile {
			return true
		}
	}
	return false
}

// applyRob moves the robber to the requested tile and, when a target is
// named, steals one random resource from a player built on that tile.
func (g *Game) applyRob(actor *Player, req MoveRequest, res *MoveResult) error {
	if req.Rob == nil {
		return Validationf("rob requires a destination")
	}
	dest := req.Rob.Coordinate()
	if _, ok := g.Board.TileAt(dest); !ok {
		return IllegalMovef("there is no tile at (%d,%d,%d)", dest.X, dest.Y, dest.Z)
	}
	if g.State.Robber != nil && *g.State.Robber == dest {
		return IllegalMovef("the robber must move to a different tile")
	}

	var victim *Player
	if req.Rob.Target != "" {
		if req.Rob.Target == actor.ID {
			return IllegalMovef("you can't rob yourself")
		}
		target, err := g.Player(req.Rob.Target)
		if err != nil {
			return err
		}
		if !g.playerBuiltOnTile(target.ID, dest) {
			return IllegalMovef("%s has no building at the robber's tile", target.ID)
		}
		victim = target
	}

	g.State.Robber = &dest
	g.touchState()

	if victim != nil {
		if stolen, ok := stealRandomResource(g.Rand, victim, actor); ok {
			g.touch(victim)
			g.touch(actor)
			res.Theft = &Theft{From: victim.ID, To: actor.ID, Resource: stolen}
		}
	}

	g.State.dropPlayerFromHead(actor.ID)
	return nil
}

// playerBuiltOnTile reports whether the player owns a settlement or city on
// one of the tile's corners.
func (g *Game) playerBuiltOnTile(playerID string, tile HexCoordinate) bool {
	for _, b := range g.Buildings {
		if b.Type == Road || b.Owner != playerID {
			continue
		}
		if touchesTile(b.CornerSite(), tile) {
			return true
		}
	}
	return false
}

// stealRandomResource moves one uniformly random resource from the victim
// to the thief. An empty hand steals nothing.
func stealRandomResource(rng Rand, victim, thief *Player) (Resource, bool) {
	total := victim.TotalResources()
	if total == 0 {
		return "", false
	}
	pick := rng.Intn(total)
	for _, r := range Resources {
		n := victim.Resources[r]
		if pick < n {
			victim.Resources[r]--
			thief.Resources[r]++
			return r, true
		}
		pick -= n
	}
	return "", false
}
