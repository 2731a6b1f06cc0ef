package ir

// Coloring maps every variable to a non-negative color. Colors 0..15
// become physical registers; colors ≥16 become stack offsets (Step 5e,
// applied by LocationFromColor).
type Coloring map[Var]int

// ColorGraph is Step 5d: DSATUR coloring with move bias. Pops the
// highest-(saturation, move_saturation)-priority uncolored node, prefers a
// color already used by one of its move-related neighbors when that color
// doesn't conflict with an interference neighbor's color, and otherwise
// picks the least color conflicting with none of its interference
// neighbors.
func ColorGraph(interference *InterferenceGraph, moves *MoveGraph) Coloring {
	colors := make(Coloring)
	seenColors := make(map[Var]map[int]bool) // distinct colors seen so far among each node's interference-neighbors, for saturation bookkeeping

	pq := newPriorityQueue(interference.Vars())

	for !pq.Empty() {
		n := pq.PopMax()

		conflicts := make(map[int]bool)
		for _, w := range interference.Neighbors(n) {
			if c, ok := colors[w]; ok {
				conflicts[c] = true
			}
		}

		preferred := make(map[int]bool)
		for _, m := range moves.Neighbors(n) {
			if c, ok := colors[m]; ok {
				preferred[c] = true
			}
		}

		color := -1
		for c := range preferred {
			if !conflicts[c] && (color == -1 || c < color) {
				color = c
			}
		}
		if color == -1 {
			color = leastAvailable(conflicts)
		}
		colors[n] = color

		for _, w := range interference.Neighbors(n) {
			if _, done := colors[w]; done {
				continue
			}
			if seenColors[w] == nil {
				seenColors[w] = make(map[int]bool)
			}
			if !seenColors[w][color] {
				seenColors[w][color] = true
				pq.Bump(w, 1, 0)
			}
		}

		interferenceNeighbors := make(map[Var]bool, len(interference.Neighbors(n)))
		for _, w := range interference.Neighbors(n) {
			interferenceNeighbors[w] = true
		}
		for _, m := range moves.Neighbors(n) {
			if _, done := colors[m]; done {
				continue
			}
			if interferenceNeighbors[m] {
				continue
			}
			pq.Bump(m, 0, 1)
		}
	}

	return colors
}

func leastAvailable(used map[int]bool) int {
	for c := 0; ; c++ {
		if !used[c] {
			return c
		}
	}
}
