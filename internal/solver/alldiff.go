package solver

import "svw.info/bigsudoku/internal/bitset"

// allDiffEnforcer restores generalized arc consistency on one
// all-different constraint: it prunes every (cell, value) edge that no
// maximum bipartite matching uses, and fails when no matching covers all
// cells. The filtering rule is Régin's: an edge survives iff it is in the
// current matching, its endpoints share a strongly connected component of
// the residual graph, or its value lies on an alternating path from an
// unmatched value.
//
// One enforcer is shared by every constraint; all scratch buffers are
// allocated once, sized by the maximum constraint arity and the value
// universe, and reused across invocations.
type allDiffEnforcer struct {
	adj     []bitset.Mask // per cell position: domain ∩ constraint values
	valCell []int16       // per value: matched cell position, or -1

	// augmenting-path search
	cellStack []int16
	valStack  []int16

	// Tarjan over the contracted graph of matched (cell, value) pairs
	ids      []int16
	low      []int16
	comp     []int16
	sccVals  []bitset.Mask // per component: union of its matched values
	sccStack []int16
	frames   []sccFrame
}

type sccFrame struct {
	node int16
	rem  bitset.Mask // successor values not yet explored
}

func newAllDiffEnforcer(maxArity, numValues int) *allDiffEnforcer {
	valCell := make([]int16, numValues+1)
	for i := range valCell {
		valCell[i] = -1
	}
	return &allDiffEnforcer{
		adj:       make([]bitset.Mask, maxArity),
		valCell:   valCell,
		cellStack: make([]int16, 0, maxArity),
		valStack:  make([]int16, maxArity),
		ids:       make([]int16, maxArity),
		low:       make([]int16, maxArity),
		comp:      make([]int16, maxArity),
		sccVals:   make([]bitset.Mask, maxArity),
		sccStack:  make([]int16, 0, maxArity),
		frames:    make([]sccFrame, 0, maxArity),
	}
}

// enforce runs one propagation pass for the constraint (cells, values)
// with matching cache matched. It reports false on contradiction; on
// success the cache holds a maximum matching covering every cell, and
// every shrunken cell has been fed to the accumulator.
func (e *allDiffEnforcer) enforce(d *Domains, cells []int32, values bitset.Mask, matched []int16, acc *accumulator) bool {
	n := len(cells)

	for i, c := range cells {
		adj := d.Domain(int(c)).Intersect(values)
		if adj.IsEmpty() {
			return false
		}
		e.adj[i] = adj
	}

	// Revalidate the cached matching: keep entries whose value is still in
	// the cell's domain and not claimed by an earlier cell.
	values.ForEach(func(v int) { e.valCell[v] = -1 })
	var assigned bitset.Mask
	for i := 0; i < n; i++ {
		v := matched[i]
		if v >= 0 && e.adj[i].Contains(int(v)) && e.valCell[v] == -1 {
			e.valCell[v] = int16(i)
			assigned = assigned.With(int(v))
		} else {
			matched[i] = -1
		}
	}

	// Extend the partial matching to cover every cell.
	for i := 0; i < n; i++ {
		if matched[i] >= 0 {
			continue
		}
		if !e.augment(i, matched, &assigned) {
			return false
		}
	}

	// Values on an alternating path from an unmatched value participate in
	// some maximum matching; so do the cells those paths pass through.
	free := values.Diff(assigned)
	reach := free
	if !free.IsEmpty() {
		var seenCells bitset.Mask
		for changed := true; changed; {
			changed = false
			for i := 0; i < n; i++ {
				if seenCells.Contains(i + 1) {
					continue
				}
				if e.adj[i].Intersect(reach).IsEmpty() {
					continue
				}
				seenCells = seenCells.With(i + 1)
				reach = reach.With(int(matched[i]))
				changed = true
			}
		}
	}

	e.findSCCs(n, matched, assigned)

	// Prune: keep the matched value, values reachable from an unmatched
	// value, and values matched within the same component.
	for i := 0; i < n; i++ {
		keep := bitset.From(int(matched[i])).
			Union(e.adj[i].Intersect(reach)).
			Union(e.adj[i].Intersect(e.sccVals[e.comp[i]]))
		remove := e.adj[i].Diff(keep)
		if !remove.IsEmpty() {
			d.RemoveMask(int(cells[i]), remove)
			acc.addCell(cells[i])
		}
	}

	return true
}

// augment searches for an augmenting path from the unmatched cell start,
// trying the lowest admissible value first. On success the matching and
// the assigned set are updated in place.
func (e *allDiffEnforcer) augment(start int, matched []int16, assigned *bitset.Mask) bool {
	// Fast path: a value nobody holds yet.
	if free := e.adj[start].Diff(*assigned); !free.IsEmpty() {
		v := free.Min()
		matched[start] = int16(v)
		e.valCell[v] = int16(start)
		*assigned = assigned.With(v)
		return true
	}

	// Alternating DFS displacing already-matched cells.
	e.cellStack = e.cellStack[:0]
	e.cellStack = append(e.cellStack, int16(start))
	var seen bitset.Mask

	for len(e.cellStack) > 0 {
		ci := e.cellStack[len(e.cellStack)-1]

		if free := e.adj[ci].Diff(*assigned); !free.IsEmpty() {
			v := free.Min()
			*assigned = assigned.With(v)
			// Reassign along the path: the top takes the free value, each
			// predecessor takes the value it reached its successor by.
			matched[ci] = int16(v)
			e.valCell[v] = ci
			for k := len(e.cellStack) - 2; k >= 0; k-- {
				c := e.cellStack[k]
				pv := e.valStack[k]
				matched[c] = pv
				e.valCell[pv] = c
			}
			return true
		}

		avail := e.adj[ci].Intersect(*assigned).Diff(seen)
		if avail.IsEmpty() {
			e.cellStack = e.cellStack[:len(e.cellStack)-1]
			continue
		}
		v := avail.Min()
		seen = seen.With(v)
		e.valStack[len(e.cellStack)-1] = int16(v)
		e.cellStack = append(e.cellStack, e.valCell[v])
	}

	return false
}

// findSCCs runs iterative Tarjan over the contracted residual graph: node
// i is the matched pair (cell i, matched[i]); an arc i→j exists when cell
// i's domain holds j's matched value. It fills comp and, per component,
// the union of matched values in sccVals.
func (e *allDiffEnforcer) findSCCs(n int, matched []int16, assigned bitset.Mask) {
	for i := 0; i < n; i++ {
		e.ids[i] = -1
		e.comp[i] = -1
	}
	e.sccStack = e.sccStack[:0]
	e.frames = e.frames[:0]
	var onStack bitset.Mask
	var idx, ncomp int16

	succ := func(i int16) bitset.Mask {
		return e.adj[i].Intersect(assigned).Without(int(matched[i]))
	}

	for s := 0; s < n; s++ {
		if e.ids[s] >= 0 {
			continue
		}
		e.ids[s] = idx
		e.low[s] = idx
		idx++
		e.sccStack = append(e.sccStack, int16(s))
		onStack = onStack.With(s + 1)
		e.frames = append(e.frames, sccFrame{node: int16(s), rem: succ(int16(s))})

		for len(e.frames) > 0 {
			f := &e.frames[len(e.frames)-1]
			if !f.rem.IsEmpty() {
				v, rest := f.rem.Pop()
				f.rem = rest
				j := e.valCell[v]
				if e.ids[j] < 0 {
					e.ids[j] = idx
					e.low[j] = idx
					idx++
					e.sccStack = append(e.sccStack, j)
					onStack = onStack.With(int(j) + 1)
					e.frames = append(e.frames, sccFrame{node: j, rem: succ(j)})
				} else if onStack.Contains(int(j)+1) && e.ids[j] < e.low[f.node] {
					e.low[f.node] = e.ids[j]
				}
				continue
			}

			node := f.node
			e.frames = e.frames[:len(e.frames)-1]
			if len(e.frames) > 0 {
				parent := e.frames[len(e.frames)-1].node
				if e.low[node] < e.low[parent] {
					e.low[parent] = e.low[node]
				}
			}
			if e.low[node] == e.ids[node] {
				var vals bitset.Mask
				top := len(e.sccStack)
				for {
					top--
					w := e.sccStack[top]
					onStack = onStack.Without(int(w) + 1)
					e.comp[w] = ncomp
					vals = vals.With(int(matched[w]))
					if w == node {
						break
					}
				}
				e.sccStack = e.sccStack[:top]
				e.sccVals[ncomp] = vals
				ncomp++
			}
		}
	}
}
