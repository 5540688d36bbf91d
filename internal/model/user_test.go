package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserProfileIsComplete(t *testing.T) {
	full := UserProfile{Phone: "0400000000", Address: "1 Main St", City: "Brisbane", State: "QLD"}
	assert.True(t, full.IsComplete())

	for _, strip := range []func(*UserProfile){
		func(p *UserProfile) { p.Phone = "" },
		func(p *UserProfile) { p.Address = " " },
		func(p *UserProfile) { p.City = "" },
		func(p *UserProfile) { p.State = "" },
	} {
		p := full
		strip(&p)
		assert.False(t, p.IsComplete())
	}
}
