package page

import "sync"

// Accordion tracks which sections of a collapsible panel are open.
// Sections start open.
type Accordion struct {
	mu   sync.RWMutex
	open []bool
}

func NewAccordion(sections int) *Accordion {
	a := &Accordion{open: make([]bool, sections)}
	for i := range a.open {
		a.open[i] = true
	}
	return a
}

// Close collapses section i. Out of range indexes are ignored.
func (a *Accordion) Close(i int) {
	a.set(i, false)
}

func (a *Accordion) Open(i int) {
	a.set(i, true)
}

func (a *Accordion) set(i int, open bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i < 0 || i >= len(a.open) {
		return
	}
	a.open[i] = open
}

func (a *Accordion) IsOpen(i int) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if i < 0 || i >= len(a.open) {
		return false
	}
	return a.open[i]
}

func (a *Accordion) States() []bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	states := make([]bool, len(a.open))
	copy(states, a.open)
	return states
}
