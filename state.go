package rpccors

import "github.com/jub0bs/rpccors/dispatch"

// StatePropertyName is the name under which an [Inspector] stores the
// correlation [State] of a cross-origin request in the request's property
// bag, and under which a [Formatter] mirrors it in the per-call outgoing
// property bag.
const StatePropertyName = "CrossOriginResourceSharingState"

// A State marks a request as cross-origin, i.e. as carrying a non-empty
// Origin header. States are created by an [Inspector], one per
// cross-origin request, and are only read by the other stages of the
// pipeline.
//
// The State of a preflight request carries a ready-made reply; the State
// of any other cross-origin request doesn't.
type State struct {
	reply *dispatch.Message
}

// Reply returns the reply prepared for a preflight request,
// or nil if s isn't the state of a preflight request.
func (s *State) Reply() *dispatch.Message {
	return s.reply
}

// Preflight reports whether s is the state of a preflight request.
func (s *State) Preflight() bool {
	return s.reply != nil
}

// StateFrom returns the State stored in props, if any.
func StateFrom(props dispatch.Properties) (*State, bool) {
	v, found := props.Get(StatePropertyName)
	if !found {
		return nil, false
	}
	s, ok := v.(*State)
	return s, ok && s != nil
}

// preflightState returns the State stored in props
// if it is the state of a preflight request.
func preflightState(props dispatch.Properties) (*State, bool) {
	s, found := StateFrom(props)
	if !found || !s.Preflight() {
		return nil, false
	}
	return s, true
}
