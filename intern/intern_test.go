package intern_test

import (
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/dialogrules/respengine/intern"
)

func TestInternIdempotent(t *testing.T) {
	is := is.New(t)

	a := intern.Intern("hungry")
	b := intern.Intern("hungry")
	is.Equal(a, b)
	is.Equal(a.String(), "hungry")
}

func TestInternDistinct(t *testing.T) {
	is := is.New(t)

	a := intern.Intern("mood.happy")
	b := intern.Intern("mood.angry")
	is.True(a != b)
}

func TestLessComparesText(t *testing.T) {
	is := is.New(t)

	a := intern.Intern("zzz.last")
	b := intern.Intern("aaa.first")
	is.True(b.Less(a))
	is.True(!a.Less(b))
}

func TestInternConcurrentSafe(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			intern.Intern("concurrent.key")
		}(i)
	}
	wg.Wait()

	is := is.New(t)
	is.Equal(intern.Intern("concurrent.key").String(), "concurrent.key")
}
