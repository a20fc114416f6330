package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode_InitialState(t *testing.T) {
	n := NewNode(DefaultText)
	assert.Equal(t, Idle, n.State())
	assert.Equal(t, []string{"input"}, n.Variables())
	assert.Equal(t, DefaultText, n.Text())
}

func TestNode_UpdateReplacesPorts(t *testing.T) {
	n := NewNode("{{a}} {{b}}")

	d := n.Update("{{b}} {{c}}")
	assert.Equal(t, []string{"b", "c"}, d.Variables)
	assert.Equal(t, []string{"c"}, d.Added)
	assert.Equal(t, []string{"a"}, d.Removed)
	assert.True(t, d.Changed())
	assert.Equal(t, Idle, n.State())
	assert.Equal(t, []string{"b", "c"}, n.Variables())

	d = n.Update("{{ b }} then {{c}} and {{b}}")
	assert.False(t, d.Changed())
	assert.Equal(t, []string{"b", "c"}, d.Variables)

	d = n.Update("all gone")
	assert.Empty(t, d.Variables)
	assert.Equal(t, []string{"b", "c"}, d.Removed)
	assert.Equal(t, MinWidth, d.Width)
	assert.Equal(t, MinHeight, d.Height)
}

func TestNode_VariablesIsACopy(t *testing.T) {
	n := NewNode("{{a}}")
	vars := n.Variables()
	vars[0] = "mutated"
	assert.Equal(t, []string{"a"}, n.Variables())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "deriving", Deriving.String())
}
