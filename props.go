package respengine

import (
	"sort"

	"github.com/dialogrules/respengine/intern"
)

// Props is an ordered bag of named Values: a character sheet, a world
// state, or the transient request data passed to FindBestResponse.
// Entries are kept sorted by ascending name so Each (and, in turn, the
// engine's scanner) can walk them with a single monotone pass, the
// same guarantee an ordered map keyed by interned string would give.
type Props struct {
	entries []propEntry
}

type propEntry struct {
	name    intern.Handle
	nameStr string
	value   Value
}

// NewProps returns an empty Props.
func NewProps() *Props { return &Props{} }

func (p *Props) search(name intern.Handle) (int, bool) {
	ns := name.String()
	i := sort.Search(len(p.entries), func(i int) bool { return p.entries[i].nameStr >= ns })
	if i < len(p.entries) && p.entries[i].name == name {
		return i, true
	}
	return i, false
}

// Get returns the value stored under name and whether it was present.
func (p *Props) Get(name intern.Handle) (Value, bool) {
	i, ok := p.search(name)
	if !ok {
		return Value{}, false
	}
	return p.entries[i].value, true
}

// GetOr returns the value stored under name, or def if absent.
func (p *Props) GetOr(name intern.Handle, def Value) Value {
	if v, ok := p.Get(name); ok {
		return v
	}
	return def
}

// Set stores v under name, overwriting any existing value.
func (p *Props) Set(name intern.Handle, v Value) {
	i, ok := p.search(name)
	if ok {
		p.entries[i].value = v
		return
	}
	p.entries = append(p.entries, propEntry{})
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = propEntry{name: name, nameStr: name.String(), value: v}
}

// Remove deletes the entry stored under name, if any.
func (p *Props) Remove(name intern.Handle) {
	i, ok := p.search(name)
	if !ok {
		return
	}
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
}

// Len reports the number of entries.
func (p *Props) Len() int { return len(p.entries) }

// Each calls f once per entry in ascending name order.
func (p *Props) Each(f func(name intern.Handle, v Value)) {
	for _, e := range p.entries {
		f(e.name, e.value)
	}
}
