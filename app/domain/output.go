package domain

import "context"

//go:generate mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks

// Output publishes a finished Report somewhere (terminal, pull request).
type Output interface {
	Name() string
	Report(ctx context.Context, report Report, options map[string]any) error
}

// Registry holds the outputs known to this process. It is built once at
// start-up and shared by reference.
type Registry struct {
	outputs []Output
}

func NewRegistry(outputs ...Output) *Registry {
	return &Registry{outputs: outputs}
}

// All returns the registered outputs in registration order.
func (r *Registry) All() []Output {
	return r.outputs
}

func (r *Registry) Get(name string) (Output, bool) {
	for _, o := range r.outputs {
		if o.Name() == name {
			return o, true
		}
	}
	return nil, false
}
