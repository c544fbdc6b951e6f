package respengine

import (
	"strconv"

	"github.com/dialogrules/respengine/intern"
)

// Delivery selects which Dispatcher a ResponseGroup compiles to.
type Delivery int

const (
	// DeliveryShuffle hands out weighted-random picks without
	// repetition until every response has been returned once, then
	// reshuffles, guaranteeing in a group of two or more that the
	// just-returned response is never immediately repeated. A group of
	// one returns its single response every time.
	DeliveryShuffle Delivery = iota
	// DeliveryRandom picks a weighted-random response every time,
	// independent of history.
	DeliveryRandom
	// DeliveryDeplete hands out weighted-random picks without
	// repetition and never refills; once exhausted it disables the
	// owning rule.
	DeliveryDeplete
	// DeliveryLoop cycles through responses in order, forever.
	DeliveryLoop
	// DeliveryList returns responses in order once each, then
	// disables the owning rule.
	DeliveryList
)

// weightField is the reserved response key a ResponseGroup pulls a
// dispatcher weight from; it never reaches the caller since it is
// removed from the Response before FindBestResponse returns it.
const weightField = "weight"

// Response is one concrete reply: a set of named fields (commonly
// "text", "anim", "sound") the caller interprets. A "weight" field, if
// present, is consumed at compile time to weight this response within
// its group and never appears in a returned Response.
type Response map[string]string

// ResponseGroup is a named, orderable set of Responses along with the
// Delivery policy used to pick among them at runtime.
type ResponseGroup struct {
	Delivery  Delivery
	Responses []Response
}

// engineResponseGroup is the compiled form: the response payloads with
// their weight fields stripped out, paired with a live Dispatcher.
type engineResponseGroup struct {
	dispatcher Dispatcher
	responses  []Response
}

// compileResponseGroup strips the reserved "weight" field out of every
// response, parsing it into the dispatcher's weight table. A missing
// weight field defaults to 1.0; one present but unparseable as a
// number produces an InvalidWeightStringError and also defaults to 1.0
// so compilation can still collect any further errors in the rest of
// the script.
func compileResponseGroup(name intern.Handle, g ResponseGroup) (engineResponseGroup, []CompileError) {
	var errs []CompileError
	weights := make([]float32, len(g.Responses))
	responses := make([]Response, len(g.Responses))

	for i, r := range g.Responses {
		cleaned := make(Response, len(r))
		weight := float32(1)
		for k, v := range r {
			if k == weightField {
				parsed, err := strconv.ParseFloat(v, 32)
				if err != nil {
					errs = append(errs, &InvalidWeightStringError{String: v, InResponseGroup: name})
					continue
				}
				weight = float32(parsed)
				continue
			}
			cleaned[k] = v
		}
		weights[i] = weight
		responses[i] = cleaned
	}

	return engineResponseGroup{
		dispatcher: newDispatcher(g.Delivery, weights),
		responses:  responses,
	}, errs
}
