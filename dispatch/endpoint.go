package dispatch

// A Contract describes the operations exposed by an endpoint.
type Contract struct {
	Name string
	// Namespace prefixes the actions derived from request paths;
	// see [NewHandler].
	Namespace  string
	Operations []OperationDescription
}

// An OperationDescription pairs an operation's request action with its
// reply action. OneWay operations have no reply action.
type OperationDescription struct {
	Name        string
	Action      string
	ReplyAction string
	OneWay      bool
}

// An Endpoint binds a contract to the runtime objects that serve it.
//
// An Endpoint must not be modified once a [Dispatcher] has been built
// from it.
type Endpoint struct {
	Address  string
	Contract Contract
	// Instance is passed to the operations' invokers.
	Instance   any
	Inspectors []MessageInspector
	Operations []*Operation
	// Behaviors are applied, in order, when a Dispatcher is built.
	Behaviors []EndpointBehavior
}

// An Operation is the runtime counterpart of an [OperationDescription].
type Operation struct {
	Name        string
	Action      string
	ReplyAction string
	OneWay      bool
	Formatter   MessageFormatter
	Invoker     OperationInvoker
	// Behaviors are applied, in order, when a Dispatcher is built.
	Behaviors []OperationBehavior
}

// Description returns the description of op.
func (op *Operation) Description() OperationDescription {
	return OperationDescription{
		Name:        op.Name,
		Action:      op.Action,
		ReplyAction: op.ReplyAction,
		OneWay:      op.OneWay,
	}
}

// NewEndpoint returns an endpoint serving ops, whose contract lists the
// descriptions of ops in order. Operations whose action is empty are
// given the action namespace + "/" + name, and the reply action
// action + "Response" unless they are one-way.
func NewEndpoint(address, name, namespace string, ops ...*Operation) *Endpoint {
	ep := Endpoint{
		Address: address,
		Contract: Contract{
			Name:      name,
			Namespace: namespace,
		},
	}
	for _, op := range ops {
		if op.Action == "" {
			op.Action = namespace + "/" + op.Name
		}
		if op.ReplyAction == "" && !op.OneWay {
			op.ReplyAction = op.Action + "Response"
		}
		ep.Operations = append(ep.Operations, op)
		ep.Contract.Operations = append(ep.Contract.Operations, op.Description())
	}
	return &ep
}

// AddInspector registers insp. Inspectors run in registration order
// on requests and in reverse registration order on replies.
func (ep *Endpoint) AddInspector(insp MessageInspector) {
	ep.Inspectors = append(ep.Inspectors, insp)
}
