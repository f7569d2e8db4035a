package solver

// propagate drains the worklist to a fixed point. Handlers run in FIFO
// order; a failing handler has its weight bumped, the worklist is cleared,
// and the pass reports contradiction.
func (e *engine) propagate() bool {
	for {
		h, ok := e.acc.pop()
		if !ok {
			return true
		}
		e.acc.hold = h
		e.counters.Propagations++
		if !e.handlers[h].enforce(e.dom, e.enf, e.acc) {
			e.weights[h]++
			e.acc.clear()
			return false
		}
		e.acc.hold = -1
	}
}
