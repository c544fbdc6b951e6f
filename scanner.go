package respengine

import (
	"github.com/dialogrules/respengine/encode"
	"github.com/dialogrules/respengine/intern"
)

// scanItem is one (name, encoded value) pair, ordered by name.
type scanItem struct {
	name  intern.Handle
	value float32
}

// scanner walks a single Props's entries with a cursor that only ever
// moves forward, so repeated ScanTo calls must be made with
// non-decreasing variable names — exactly the order the partition
// variable list and a rule's sorted criteria already guarantee.
type scanner struct {
	items  []scanItem
	cursor int
}

func newScanner(items []scanItem) *scanner { return &scanner{items: items} }

func (s *scanner) ScanTo(name intern.Handle) (float32, bool) {
	ns := name.String()
	for s.cursor < len(s.items) && s.items[s.cursor].name.String() < ns {
		s.cursor++
	}
	if s.cursor < len(s.items) && s.items[s.cursor].name == name {
		return s.items[s.cursor].value, true
	}
	return 0, false
}

func (s *scanner) Reset() { s.cursor = 0 }

// query bundles the scanners for the request, character, and world
// bags queried together during one FindBestResponse call. ScanTo tries
// each scanner in order and returns the first hit.
type query struct {
	scanners []*scanner
}

func buildQuery(enc *encode.Encoder, bags ...*Props) *query {
	q := &query{scanners: make([]*scanner, 0, len(bags))}
	for _, bag := range bags {
		items := make([]scanItem, 0, bag.Len())
		bag.Each(func(name intern.Handle, v Value) {
			items = append(items, scanItem{name: name, value: v.Encode(enc)})
		})
		q.scanners = append(q.scanners, newScanner(items))
	}
	return q
}

func (q *query) ScanTo(name intern.Handle) (float32, bool) {
	for _, s := range q.scanners {
		if v, ok := s.ScanTo(name); ok {
			return v, true
		}
	}
	return 0, false
}

func (q *query) Reset() {
	for _, s := range q.scanners {
		s.Reset()
	}
}
