package template

import "sync"

// State of a template node's derivation cycle.
type State int

const (
	// Idle means the ports reflect the current text.
	Idle State = iota
	// Deriving is held only while Update runs.
	Deriving
)

func (s State) String() string {
	if s == Deriving {
		return "deriving"
	}
	return "idle"
}

// Derivation is the outcome of one text change.
type Derivation struct {
	Variables []string
	Added     []string
	Removed   []string
	Width     int
	Height    int
}

// Changed reports whether the port set differs from the previous one.
func (d Derivation) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Node tracks the derived ports of one template node instance.
// It cycles Idle -> Deriving -> Idle on every Update and has no terminal state.
type Node struct {
	mu    sync.Mutex
	state State
	text  string
	vars  []string
}

// NewNode starts a node in Idle with ports derived from text.
func NewNode(text string) *Node {
	return &Node{text: text, vars: Variables(text)}
}

// Update re-derives the ports from text, replacing the previous set.
func (n *Node) Update(text string) Derivation {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.state = Deriving
	prev := n.vars
	next := Variables(text)
	added, removed := Diff(prev, next)
	n.text = text
	n.vars = next
	n.state = Idle

	w, h := Dimensions(text)
	return Derivation{
		Variables: append([]string(nil), next...),
		Added:     added,
		Removed:   removed,
		Width:     w,
		Height:    h,
	}
}

// Variables returns the current ports.
func (n *Node) Variables() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.vars...)
}

// Text returns the text the ports were derived from.
func (n *Node) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// State returns the current state. Outside of Update it is always Idle.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}
