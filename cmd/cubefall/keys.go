package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cubefall/tetra"
)

type binding struct {
	keys   []ebiten.Key
	names  []string
	intent tetra.Intent
}

// bindings maps keys to intents for both hosts. ebiten keys are used by the
// window, names are bubbletea key strings.
var bindings = []binding{
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, []string{"left", "a"}, tetra.MoveIntent(tetra.Left)},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, []string{"right", "d"}, tetra.MoveIntent(tetra.Right)},
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, []string{"up", "w"}, tetra.MoveIntent(tetra.Forward)},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, []string{"down", "s"}, tetra.MoveIntent(tetra.Back)},
	{[]ebiten.Key{ebiten.KeyQ}, []string{"q"}, tetra.RotateIntent(tetra.AxisY)},
	{[]ebiten.Key{ebiten.KeyE}, []string{"e"}, tetra.RotateIntent(tetra.AxisX)},
	{[]ebiten.Key{ebiten.KeyR}, []string{"r"}, tetra.RotateIntent(tetra.AxisZ)},
	{[]ebiten.Key{ebiten.KeyF}, []string{"f"}, tetra.Intent{Kind: tetra.IntentRotateAny}},
	{[]ebiten.Key{ebiten.KeyX}, []string{"x"}, tetra.Intent{Kind: tetra.IntentSoftDrop}},
	{[]ebiten.Key{ebiten.KeySpace}, []string{" ", "space"}, tetra.Intent{Kind: tetra.IntentHardDrop}},
	{[]ebiten.Key{ebiten.KeyP}, []string{"p"}, tetra.Intent{Kind: tetra.IntentTogglePause}},
	{[]ebiten.Key{ebiten.KeyN}, []string{"n"}, tetra.Intent{Kind: tetra.IntentRestart}},
	{[]ebiten.Key{ebiten.KeyEnter}, []string{"enter"}, tetra.Intent{Kind: tetra.IntentStart}},
}

// intentForName returns the intent bound to a bubbletea key string.
func intentForName(name string) (tetra.Intent, bool) {
	for _, b := range bindings {
		for _, n := range b.names {
			if n == name {
				return b.intent, true
			}
		}
	}
	return tetra.Intent{}, false
}
