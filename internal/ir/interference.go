package ir

// InterferenceGraph is an undirected graph over every variable appearing
// anywhere in the program. An edge u—v means u and v must receive distinct
// colors (Step 5c). Built from each instruction's write set against its
// live-after set, with the move-coalescing omission: a pure move's own
// source is never added to its destination's interferences.
type InterferenceGraph struct {
	vars      []Var
	adjacency map[Var]map[Var]bool
}

func newInterferenceGraph() *InterferenceGraph {
	return &InterferenceGraph{adjacency: make(map[Var]map[Var]bool)}
}

func (g *InterferenceGraph) addVar(v Var) {
	if _, ok := g.adjacency[v]; !ok {
		g.adjacency[v] = make(map[Var]bool)
		g.vars = append(g.vars, v)
	}
}

func (g *InterferenceGraph) addEdge(a, b Var) {
	if a == b {
		return
	}
	g.addVar(a)
	g.addVar(b)
	g.adjacency[a][b] = true
	g.adjacency[b][a] = true
}

// Vars returns every variable known to the graph, in the order first seen.
func (g *InterferenceGraph) Vars() []Var { return g.vars }

func (g *InterferenceGraph) Neighbors(v Var) []Var {
	var out []Var
	for n := range g.adjacency[v] {
		out = append(out, n)
	}
	return out
}

func (g *InterferenceGraph) Interferes(a, b Var) bool {
	return g.adjacency[a][b]
}

// BuildInterferenceGraph is Step 5c.
func BuildInterferenceGraph(prog *AnnotatedProgram) *InterferenceGraph {
	g := newInterferenceGraph()

	for _, id := range prog.Blocks.IDs() {
		for _, annotated := range prog.Blocks.Block(id).Instrs {
			for _, v := range instrVars(annotated.Instr) {
				g.addVar(v)
			}
		}
	}

	for _, id := range prog.Blocks.IDs() {
		for _, annotated := range prog.Blocks.Block(id).Instrs {
			buildInterferenceInstr(g, annotated)
		}
	}

	return g
}

func buildInterferenceInstr(g *InterferenceGraph, annotated AnnotatedInstr) {
	if op, ok := annotated.Instr.(*Operation); ok && op.Op == Equals {
		d, dok := op.Destination.(Var)
		s, sok := op.Source.(Var)
		if dok {
			for x := range annotated.LiveAfter {
				if x != d && !(sok && x == s) {
					g.addEdge(d, x)
				}
			}
			return
		}
	}

	for _, d := range writeSet(annotated.Instr).vars() {
		for x := range annotated.LiveAfter {
			if x != d {
				g.addEdge(d, x)
			}
		}
	}
}

func (s LiveSet) vars() []Var {
	out := make([]Var, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

// instrVars collects every variable an instruction mentions, read or
// written, so isolated (never-interfering) variables still get a graph node
// and therefore a color.
func instrVars(instr TargetInstr) []Var {
	var out []Var
	out = append(out, readSet(instr)...)
	for v := range writeSet(instr) {
		out = append(out, v)
	}
	return out
}
