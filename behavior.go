package rpccors

import "github.com/jub0bs/rpccors/dispatch"

// A Behavior adds CORS support to a [dispatch.Endpoint].
// It must be applied both to the endpoint, which registers an [Inspector],
// and to each of the endpoint's operations, which decorates their
// formatter with a [Formatter] and their invoker with an [Invoker].
// [*Behavior.Attach] does both.
//
// Behaviors are immutable and safe for concurrent use by multiple
// goroutines. A Behavior must not be applied twice to the same endpoint
// or operation.
type Behavior struct {
	policy Policy
}

// NewBehavior returns a Behavior that applies p.
// Empty fields of p take their default values.
// Mutating p after NewBehavior has returned doesn't alter the behavior.
func NewBehavior(p Policy) *Behavior {
	return &Behavior{policy: p.withDefaults()}
}

// Policy returns the policy applied by b, with defaults filled in.
func (b *Behavior) Policy() Policy {
	return b.policy
}

// ApplyEndpoint registers an [Inspector] on ep, bound to ep's contract.
func (b *Behavior) ApplyEndpoint(ep *dispatch.Endpoint) {
	ep.AddInspector(NewInspector(b.policy, &ep.Contract))
}

// ApplyOperation decorates op's formatter and invoker.
// It fails if op's invoker doesn't support synchronous invocation,
// in which case op is left unchanged.
func (b *Behavior) ApplyOperation(op *dispatch.Operation) error {
	inv, err := NewInvoker(op.Invoker)
	if err != nil {
		return err
	}
	op.Invoker = inv
	if op.Formatter != nil {
		op.Formatter = NewFormatter(op.Formatter)
	}
	return nil
}

// Attach declares b as a behavior of ep and of each of ep's operations;
// b takes effect when a [dispatch.Dispatcher] is built from ep, which
// fails if b cannot be applied to some operation.
func (b *Behavior) Attach(ep *dispatch.Endpoint) {
	ep.Behaviors = append(ep.Behaviors, b)
	for _, op := range ep.Operations {
		op.Behaviors = append(op.Behaviors, b)
	}
}

var (
	_ dispatch.EndpointBehavior  = (*Behavior)(nil)
	_ dispatch.OperationBehavior = (*Behavior)(nil)
	_ dispatch.MessageInspector  = (*Inspector)(nil)
	_ dispatch.MessageFormatter  = (*Formatter)(nil)
	_ dispatch.OperationInvoker  = (*Invoker)(nil)
)
