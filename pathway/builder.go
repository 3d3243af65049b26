package pathway

// Builder provides a fluent API for constructing networks.
// It simplifies net creation by chaining method calls.
//
// Example:
//
//	net := pathway.Build().
//	    Place("glucose", 5).
//	    Place("g6p", 0).
//	    Transition("hexokinase").
//	    Arc("glucose", "hexokinase", 1).
//	    Arc("hexokinase", "g6p", 1).
//	    Done()
type Builder struct {
	net *Net
}

// Build creates a new Builder for constructing a network.
func Build() *Builder {
	return &Builder{net: NewNet()}
}

// Place adds a place with the given identifier and initial token count.
// The identifier doubles as the label.
func (b *Builder) Place(id string, tokens int) *Builder {
	b.net.AddPlace(id, id, tokens)
	return b
}

// PlaceNamed adds a place with a separate human label.
func (b *Builder) PlaceNamed(id, name string, tokens int) *Builder {
	b.net.AddPlace(id, name, tokens)
	return b
}

// Transition adds a transition with the given identifier.
func (b *Builder) Transition(id string) *Builder {
	b.net.AddTransition(id, id)
	return b
}

// TransitionNamed adds a transition with a separate human label.
func (b *Builder) TransitionNamed(id, name string) *Builder {
	b.net.AddTransition(id, name)
	return b
}

// Arc adds an arc between a place and a transition (either direction).
func (b *Builder) Arc(source, target string, weight int) *Builder {
	b.net.AddArc(source, target, weight)
	return b
}

// Done returns the constructed network.
func (b *Builder) Done() *Net {
	return b.net
}
