package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/spacehunter/ecs"
)

type binding struct {
	intent ecs.Intent
	keys   []ebiten.Key
	pad    ebiten.StandardGamepadButton
}

var bindings = []binding{
	{ecs.IntentTurnLeft, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, ebiten.StandardGamepadButtonLeftLeft},
	{ecs.IntentTurnRight, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, ebiten.StandardGamepadButtonLeftRight},
	{ecs.IntentThrustForward, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, ebiten.StandardGamepadButtonLeftTop},
	{ecs.IntentThrustBackward, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, ebiten.StandardGamepadButtonLeftBottom},
	{ecs.IntentFire, []ebiten.Key{ebiten.KeySpace}, ebiten.StandardGamepadButtonRightBottom},
}

// readInputs turns this frame's key and button edges into intents.
func readInputs() []ecs.Input {
	var inputs []ecs.Input
	gamepads := ebiten.AppendGamepadIDs(nil)
	for _, b := range bindings {
		pressed, released := false, false
		for _, k := range b.keys {
			pressed = pressed || inpututil.IsKeyJustPressed(k)
			released = released || inpututil.IsKeyJustReleased(k)
		}
		for _, id := range gamepads {
			pressed = pressed || inpututil.IsStandardGamepadButtonJustPressed(id, b.pad)
			released = released || inpututil.IsStandardGamepadButtonJustReleased(id, b.pad)
		}
		if released {
			inputs = append(inputs, ecs.Input{Intent: b.intent})
		}
		if pressed {
			inputs = append(inputs, ecs.Input{Intent: b.intent, Pressed: true})
		}
	}
	return inputs
}
