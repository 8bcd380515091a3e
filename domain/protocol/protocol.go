// Package protocol provides named, reusable procedures referenced by
// query from states. The orchestrator passes protocol names and queries
// across the assembly boundary, never protocol bodies.
package protocol

// Step is a single step within a protocol.
type Step struct {
	Name         string   `json:"name" yaml:"name"`
	Goal         string   `json:"goal" yaml:"goal"`
	Instructions []string `json:"instructions" yaml:"instructions"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Complete     bool     `json:"complete,omitempty" yaml:"-"`
}

// Protocol is an ordered procedure the agent follows for a class of
// situations. Name is the unique key in a Library.
type Protocol struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Steps       []Step `json:"steps" yaml:"steps"`

	current int
}

// New creates a protocol from its steps.
func New(name, description string, steps ...Step) *Protocol {
	return &Protocol{Name: name, Description: description, Steps: steps}
}

// CurrentStep returns the step in progress, or nil if the protocol has
// run past its last step.
func (p *Protocol) CurrentStep() *Step {
	if p.current < 0 || p.current >= len(p.Steps) {
		return nil
	}
	return &p.Steps[p.current]
}

// CurrentIndex returns the zero-based index of the step in progress.
func (p *Protocol) CurrentIndex() int {
	return p.current
}

// Advance marks the current step complete and moves to the next,
// reporting false when already at the final step.
func (p *Protocol) Advance() bool {
	if p.current >= len(p.Steps)-1 {
		return false
	}
	p.Steps[p.current].Complete = true
	p.current++
	return true
}

// Done reports whether every step is complete.
func (p *Protocol) Done() bool {
	for _, s := range p.Steps {
		if !s.Complete {
			return false
		}
	}
	return true
}

// Reset returns the protocol to its first step and clears completion.
func (p *Protocol) Reset() {
	p.current = 0
	for i := range p.Steps {
		p.Steps[i].Complete = false
	}
}
