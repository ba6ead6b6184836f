package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/spacehunter/ecs"
)

func TestBindingsCoverEveryIntent(t *testing.T) {
	seen := map[ecs.Intent]bool{}
	keys := map[string]ecs.Intent{}
	for _, b := range bindings {
		assert.False(t, seen[b.intent], "duplicate binding for %s", b.intent)
		seen[b.intent] = true
		assert.NotEmpty(t, b.keys)
		for _, k := range b.keys {
			prev, dup := keys[k.String()]
			assert.False(t, dup, "key %s bound to %s and %s", k, prev, b.intent)
			keys[k.String()] = b.intent
		}
	}
	for _, in := range []ecs.Intent{
		ecs.IntentTurnLeft,
		ecs.IntentTurnRight,
		ecs.IntentThrustForward,
		ecs.IntentThrustBackward,
		ecs.IntentFire,
	} {
		assert.True(t, seen[in], "no binding for %s", in)
	}
}
