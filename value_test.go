package respengine_test

import (
	"math"
	"testing"

	"github.com/matryer/is"

	respengine "github.com/dialogrules/respengine"
	"github.com/dialogrules/respengine/encode"
)

func TestValueDefaultIsFalse(t *testing.T) {
	is := is.New(t)
	var v respengine.Value
	is.Equal(v.Kind(), respengine.KindBool)
	is.Equal(v.Bool(), false)
}

func TestValueArithmeticTreatsNonNumberAsZero(t *testing.T) {
	is := is.New(t)

	five := respengine.NumValue(5)
	flag := respengine.BoolValue(true)

	is.Equal(five.Add(flag).Num(), float32(5))
	is.Equal(flag.Add(five).Num(), float32(5))
	is.Equal(five.Sub(flag).Num(), float32(5))
	is.Equal(flag.Sub(five).Num(), float32(-5))
	is.Equal(five.Mul(flag).Num(), float32(0))
}

func TestValueDivisionByNonNumberIsIdentity(t *testing.T) {
	is := is.New(t)

	five := respengine.NumValue(5)
	str := respengine.StrValueOf("not a number")

	is.Equal(five.Div(str).Num(), float32(5))
}

func TestValueDivisionByNumber(t *testing.T) {
	is := is.New(t)
	is.Equal(respengine.NumValue(10).Div(respengine.NumValue(4)).Num(), float32(2.5))
}

func TestValueEncodeBoolAndNumArePassthrough(t *testing.T) {
	is := is.New(t)
	e := encode.New()

	is.Equal(respengine.BoolValue(false).Encode(e), float32(0))
	is.Equal(respengine.BoolValue(true).Encode(e), float32(1))
	is.Equal(respengine.NumValue(42.5).Encode(e), float32(42.5))
}

func TestValueEncodeStringsAreDistinctAndStable(t *testing.T) {
	is := is.New(t)
	e := encode.New()

	a := respengine.StrValueOf("alpha").Encode(e)
	b := respengine.StrValueOf("beta").Encode(e)
	aAgain := respengine.StrValueOf("alpha").Encode(e)

	is.True(a != b)
	is.Equal(a, aAgain)
}

func TestValueEqual(t *testing.T) {
	is := is.New(t)

	is.True(respengine.NumValue(1).Equal(respengine.NumValue(1)))
	is.True(!respengine.NumValue(1).Equal(respengine.NumValue(2)))
	is.True(!respengine.NumValue(1).Equal(respengine.BoolValue(true)))
	is.True(!respengine.NumValue(float32(math.NaN())).Equal(respengine.NumValue(float32(math.NaN()))))
}
