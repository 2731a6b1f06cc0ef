package ir

import "container/heap"

// colorPriority is a node's DSATUR priority: (saturation, move_saturation),
// compared lexicographically with higher considered "greater" (popped
// first). Ties break on id (lower id wins), so coloring order — and
// therefore the colors assigned — stays deterministic across runs.
type colorPriority struct {
	saturation     int
	moveSaturation int
}

// priorityQueue is an addressable max-priority queue keyed by Var, used by
// Step 5d's DSATUR coloring loop: the allocator needs to both pop the
// highest-priority uncolored node and bump a node's priority in place as
// neighbors get colored. No example repo in the corpus carries an
// equivalent of the Rust original's keyed_priority_queue crate, so this is
// a documented stdlib container/heap exception.
type priorityQueue struct {
	items []pqItem
	index map[Var]int // position of each Var's item in items
}

type pqItem struct {
	v        Var
	priority colorPriority
}

func newPriorityQueue(vars []Var) *priorityQueue {
	pq := &priorityQueue{index: make(map[Var]int, len(vars))}
	for _, v := range vars {
		pq.items = append(pq.items, pqItem{v: v})
	}
	for i, it := range pq.items {
		pq.index[it.v] = i
	}
	heap.Init(pq)
	return pq
}

func (pq *priorityQueue) Len() int { return len(pq.items) }

func (pq *priorityQueue) Less(i, j int) bool {
	a, b := pq.items[i].priority, pq.items[j].priority
	if a.saturation != b.saturation {
		return a.saturation > b.saturation // higher saturation pops first
	}
	if a.moveSaturation != b.moveSaturation {
		return a.moveSaturation > b.moveSaturation
	}
	return pq.items[i].v.ID() < pq.items[j].v.ID() // stable, deterministic tie-break
}

func (pq *priorityQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.index[pq.items[i].v] = i
	pq.index[pq.items[j].v] = j
}

func (pq *priorityQueue) Push(x any) {
	it := x.(pqItem)
	pq.index[it.v] = len(pq.items)
	pq.items = append(pq.items, it)
}

func (pq *priorityQueue) Pop() any {
	old := pq.items
	n := len(old)
	it := old[n-1]
	pq.items = old[:n-1]
	delete(pq.index, it.v)
	return it
}

func (pq *priorityQueue) Empty() bool { return len(pq.items) == 0 }

// PopMax removes and returns the highest-priority variable.
func (pq *priorityQueue) PopMax() Var {
	return heap.Pop(pq).(pqItem).v
}

// Bump increases v's saturation/move-saturation and re-heapifies it. v must
// still be in the queue.
func (pq *priorityQueue) Bump(v Var, deltaSaturation, deltaMoveSaturation int) {
	i, ok := pq.index[v]
	if !ok {
		return
	}
	pq.items[i].priority.saturation += deltaSaturation
	pq.items[i].priority.moveSaturation += deltaMoveSaturation
	heap.Fix(pq, i)
}
