package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchSetsTracksPresence(t *testing.T) {
	name := "Ravi"
	empty := ""
	p := Patch{Name: &name, Email: &empty}

	sets, args := p.sets()
	// name was supplied, email was set to empty (still present), the rest
	// were omitted and must not appear.
	assert.Equal(t, []string{"name = $1", "email = $2", "updated_at = NOW()"}, sets)
	assert.Equal(t, []any{"Ravi", ""}, args)
}

func TestPatchSetsEmptyPatch(t *testing.T) {
	sets, args := Patch{}.sets()
	assert.Equal(t, []string{"updated_at = NOW()"}, sets)
	assert.Empty(t, args)
}
