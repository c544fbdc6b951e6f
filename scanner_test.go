package respengine

import (
	"testing"

	"github.com/matryer/is"

	"github.com/dialogrules/respengine/intern"
)

func TestScannerMonotoneScanTo(t *testing.T) {
	is := is.New(t)

	s := newScanner([]scanItem{
		{name: intern.Intern("alpha"), value: 1},
		{name: intern.Intern("mango"), value: 2},
		{name: intern.Intern("zebra"), value: 3},
	})

	v, ok := s.ScanTo(intern.Intern("alpha"))
	is.True(ok)
	is.Equal(v, float32(1))

	v, ok = s.ScanTo(intern.Intern("mango"))
	is.True(ok)
	is.Equal(v, float32(2))

	_, ok = s.ScanTo(intern.Intern("banana-not-present"))
	is.True(!ok)

	v, ok = s.ScanTo(intern.Intern("zebra"))
	is.True(ok)
	is.Equal(v, float32(3))
}

func TestScannerResetRewindsCursor(t *testing.T) {
	is := is.New(t)

	s := newScanner([]scanItem{{name: intern.Intern("only"), value: 9}})
	_, _ = s.ScanTo(intern.Intern("only"))
	s.Reset()

	v, ok := s.ScanTo(intern.Intern("only"))
	is.True(ok)
	is.Equal(v, float32(9))
}

func TestQueryPrefersEarliestScannerHit(t *testing.T) {
	is := is.New(t)

	name := intern.Intern("shared")
	requestItems := newScanner([]scanItem{{name: name, value: 1}})
	worldItems := newScanner([]scanItem{{name: name, value: 2}})

	q := &query{scanners: []*scanner{requestItems, worldItems}}
	v, ok := q.ScanTo(name)
	is.True(ok)
	is.Equal(v, float32(1))
}
