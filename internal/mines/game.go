package mines

// OpenFloodFill uncovers row, col and, when it has no bomb neighbors, every
// covered cell reachable from it through other empty cells. Numbered cells on
// the edge of the region are uncovered but not expanded. Flagged and visible
// cells are left alone. The input grid is not modified.
func OpenFloodFill(g Grid, row, col int) Grid {
	if !g.Contains(row, col) {
		return g
	}
	origin := g.At(row, col)
	if origin.State != Open || origin.IsBomb() {
		return g
	}

	e := g.edit()
	e.set(Pos{row, col}, origin.withState(Visible))
	if origin.Value != None {
		return e.grid()
	}

	/*
	 * Cells are made visible before they are pushed, so each one enters
	 * the stack at most once and the walk ends after at most Rows*Cols
	 * iterations.
	 */
	todo := []Pos{{row, col}}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		for n := range g.Neighbors(p.Row, p.Col) {
			c := e.at(n)
			if c.State != Open || c.IsBomb() {
				continue
			}
			e.set(n, c.withState(Visible))
			if c.Value == None {
				todo = append(todo, n)
			}
		}
	}
	return e.grid()
}

// Reveal uncovers a single cell.
func Reveal(g Grid, row, col int) Grid {
	if !g.Contains(row, col) || g.At(row, col).State != Open {
		return g
	}
	e := g.edit()
	e.set(Pos{row, col}, g.At(row, col).withState(Visible))
	return e.grid()
}

// ToggleFlag flags a covered cell or unflags a flagged one. delta is the
// change to the remaining-flags counter: -1, +1, or 0 when nothing happened.
func ToggleFlag(g Grid, row, col int) (_ Grid, delta int) {
	if !g.Contains(row, col) {
		return g, 0
	}
	c := g.At(row, col)
	switch c.State {
	case Open:
		c.State, delta = Flagged, -1
	case Flagged:
		c.State, delta = Open, +1
	default:
		return g, 0
	}
	e := g.edit()
	e.set(Pos{row, col}, c)
	return e.grid(), delta
}

// Explode marks row, col as the losing cell and uncovers every bomb.
func Explode(g Grid, row, col int) Grid {
	e := g.edit()
	for p, c := range g.Cells() {
		if p.Row == row && p.Col == col {
			c.Red = true
			e.set(p, c.withState(Visible))
		} else if c.IsBomb() && c.State != Visible {
			e.set(p, c.withState(Visible))
		}
	}
	return e.grid()
}

// FlagBombs flags every bomb, as happens when the game is won.
func FlagBombs(g Grid) Grid {
	e := g.edit()
	for p, c := range g.Cells() {
		if c.IsBomb() && c.State != Flagged {
			e.set(p, c.withState(Flagged))
		}
	}
	return e.grid()
}

// Cleared reports whether every safe cell has been uncovered.
func Cleared(g Grid) bool {
	for _, c := range g.Cells() {
		if !c.IsBomb() && c.State == Open {
			return false
		}
	}
	return true
}
