// Package page holds the element document the address panels are rendered
// into. Elements are addressed by id, the same ids the HTML page uses.
package page

import (
	"encoding/json"
	"html/template"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

type Element struct {
	ID      string        `json:"id"`
	Content template.HTML `json:"content"`
	Hidden  bool          `json:"hidden"`
}

// Text returns the element content with markup removed. Images contribute
// nothing, so a flagged country renders as just its name.
func (e Element) Text() string {
	var sb strings.Builder

	z := html.NewTokenizer(strings.NewReader(string(e.Content)))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}

// Document is safe for concurrent use. The v4 and v6 loads write into the
// same document from different goroutines.
type Document struct {
	mu        sync.RWMutex
	elements  map[string]*Element
	Accordion *Accordion
}

func NewDocument(ids ...string) *Document {
	d := &Document{
		elements:  make(map[string]*Element, len(ids)),
		Accordion: NewAccordion(0),
	}

	for _, id := range ids {
		d.elements[id] = &Element{ID: id}
	}

	return d
}

func (d *Document) element(id string) *Element {
	el, ok := d.elements[id]
	if !ok {
		el = &Element{ID: id}
		d.elements[id] = el
	}
	return el
}

// SetHTML replaces the content of the element
func (d *Document) SetHTML(id string, content template.HTML) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.element(id).Content = content
}

func (d *Document) Hide(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.element(id).Hidden = true
}

func (d *Document) Show(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.element(id).Hidden = false
}

func (d *Document) Lookup(id string) (Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el, ok := d.elements[id]
	if !ok {
		return Element{ID: id}, false
	}
	return *el, true
}

// Element returns a copy of the element, or an empty one when the id is unknown
func (d *Document) Element(id string) Element {
	el, _ := d.Lookup(id)
	return el
}

// Snapshot copies every element, keyed by id
func (d *Document) Snapshot() map[string]Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := make(map[string]Element, len(d.elements))
	for id, el := range d.elements {
		snap[id] = *el
	}
	return snap
}

// Elements returns a copy of every element ordered by id
func (d *Document) Elements() []Element {
	snap := d.Snapshot()

	elements := make([]Element, 0, len(snap))
	for _, el := range snap {
		elements = append(elements, el)
	}
	sort.Slice(elements, func(i, j int) bool {
		return elements[i].ID < elements[j].ID
	})

	return elements
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Elements  []Element `json:"elements"`
		Accordion []bool    `json:"accordion"`
	}{
		Elements:  d.Elements(),
		Accordion: d.Accordion.States(),
	})
}
