package respengine

import (
	"math/rand"
	"testing"

	"github.com/matryer/is"
)

func TestLoopDispatcherCyclesForever(t *testing.T) {
	is := is.New(t)
	d := newDispatcher(DeliveryLoop, []float32{1, 1, 1})
	rng := rand.New(rand.NewSource(1))

	var got []int
	for i := 0; i < 7; i++ {
		idx, ok := d.Next(rng)
		is.True(ok)
		got = append(got, idx)
	}
	is.Equal(got, []int{0, 1, 2, 0, 1, 2, 0})
	is.True(!d.DisableRule())
}

func TestLoopDispatcherEmptyGroupNeverCrashes(t *testing.T) {
	is := is.New(t)
	d := newDispatcher(DeliveryLoop, nil)
	rng := rand.New(rand.NewSource(1))

	_, ok := d.Next(rng)
	is.True(!ok)
	_, ok = d.Next(rng)
	is.True(!ok)
}

func TestListDispatcherExhaustsThenDisables(t *testing.T) {
	is := is.New(t)
	d := newDispatcher(DeliveryList, []float32{1, 1})
	rng := rand.New(rand.NewSource(1))

	_, ok := d.Next(rng)
	is.True(ok)
	_, ok = d.Next(rng)
	is.True(ok)
	_, ok = d.Next(rng)
	is.True(!ok)
	is.True(d.DisableRule())
}

func TestDepleteDispatcherNeverRepeatsAndDisables(t *testing.T) {
	is := is.New(t)
	d := newDispatcher(DeliveryDeplete, []float32{1, 1, 1})
	rng := rand.New(rand.NewSource(2))

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		idx, ok := d.Next(rng)
		is.True(ok)
		is.True(!seen[idx])
		seen[idx] = true
	}
	is.True(d.DisableRule())
	_, ok := d.Next(rng)
	is.True(!ok)
}

func TestShuffleDispatcherNeverRepeatsJustReturned(t *testing.T) {
	is := is.New(t)
	d := newDispatcher(DeliveryShuffle, []float32{1, 1, 1})
	rng := rand.New(rand.NewSource(3))

	prev := -1
	for i := 0; i < 50; i++ {
		idx, ok := d.Next(rng)
		is.True(ok)
		is.True(idx != prev)
		prev = idx
	}
	is.True(!d.DisableRule())
}

func TestShuffleDispatcherSingleResponseAlwaysZero(t *testing.T) {
	is := is.New(t)
	d := newDispatcher(DeliveryShuffle, []float32{1})
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 5; i++ {
		idx, ok := d.Next(rng)
		is.True(ok)
		is.Equal(idx, 0)
	}
}

func TestRandomDispatcherNeverDisables(t *testing.T) {
	is := is.New(t)
	d := newDispatcher(DeliveryRandom, []float32{1, 2, 3})
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 20; i++ {
		_, ok := d.Next(rng)
		is.True(ok)
		is.True(!d.DisableRule())
	}
}
