package roster

// Option configures a MemRoster.
type Option func(*MemRoster)

// WithDescriptorDim sets the descriptor dimension the roster enforces.
func WithDescriptorDim(dim int) Option {
	return func(r *MemRoster) {
		if dim > 0 {
			r.dim = dim
		}
	}
}
