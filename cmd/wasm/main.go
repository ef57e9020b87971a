//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/tablewick/tablewick/backend-go/internal/vision"
)

var eng *vision.Engine

func main() {
	eng = vision.NewEngine()

	// Create the engine API object
	tablewickEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	tablewickEngine.Set("loadMap", js.FuncOf(loadMap))
	tablewickEngine.Set("loadSampleMap", js.FuncOf(loadSampleMap))
	tablewickEngine.Set("moveToken", js.FuncOf(moveToken))
	tablewickEngine.Set("togglePortal", js.FuncOf(togglePortal))
	tablewickEngine.Set("toggleLight", js.FuncOf(toggleLight))
	tablewickEngine.Set("moveLight", js.FuncOf(moveLight))
	tablewickEngine.Set("setAmbient", js.FuncOf(setAmbient))
	tablewickEngine.Set("setVisionProfile", js.FuncOf(setVisionProfile))

	// --- Queries (frontend ← backend) ---
	tablewickEngine.Set("snapshot", js.FuncOf(snapshot))
	tablewickEngine.Set("getMap", js.FuncOf(getMap))
	tablewickEngine.Set("perceives", js.FuncOf(perceives))
	tablewickEngine.Set("lightLevelAt", js.FuncOf(lightLevelAt))

	// Register on global scope
	js.Global().Set("tablewickEngine", tablewickEngine)

	// Signal that WASM is ready
	js.Global().Set("tablewickWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadMap(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing map JSON"})
	}

	if err := eng.LoadMap(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleMap(this js.Value, args []js.Value) interface{} {
	eng.LoadSampleMap()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func moveToken(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errValue("moveToken requires id, x, y")
	}
	if err := eng.MoveToken(args[0].String(), args[1].Float(), args[2].Float()); err != nil {
		return errValue(err.Error())
	}
	return nil
}

func togglePortal(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errValue("togglePortal requires id")
	}
	if err := eng.TogglePortal(args[0].String()); err != nil {
		return errValue(err.Error())
	}
	return nil
}

func toggleLight(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errValue("toggleLight requires id")
	}
	if err := eng.ToggleLight(args[0].String()); err != nil {
		return errValue(err.Error())
	}
	return nil
}

func moveLight(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errValue("moveLight requires id, x, y")
	}
	if err := eng.MoveLight(args[0].String(), args[1].Float(), args[2].Float()); err != nil {
		return errValue(err.Error())
	}
	return nil
}

func setAmbient(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errValue("setAmbient requires a level")
	}
	magical := false
	if len(args) > 1 {
		magical = args[1].Truthy()
	}
	if err := eng.SetAmbient(args[0].String(), magical); err != nil {
		return errValue(err.Error())
	}
	return nil
}

func setVisionProfile(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errValue("setVisionProfile requires id, modality, range")
	}
	if err := eng.SetVisionProfile(args[0].String(), args[1].String(), args[2].Float()); err != nil {
		return errValue(err.Error())
	}
	return nil
}

// --- Query Handlers ---

func snapshot(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Snapshot())
}

func getMap(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetMap())
}

func perceives(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.Perceives(args[0].String(), args[1].Float(), args[2].Float()))
}

func lightLevelAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("unlit")
	}
	return js.ValueOf(eng.LightLevelAt(args[0].Float(), args[1].Float()))
}

func errValue(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}
