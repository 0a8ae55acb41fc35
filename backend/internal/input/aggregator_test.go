package input

import "testing"

func TestKeyAliasing(t *testing.T) {
	tests := []struct {
		name string
		code string
		get  func(State) bool
	}{
		{"w maps to forward", "w", func(s State) bool { return s.Forward }},
		{"ArrowUp maps to forward", "ArrowUp", func(s State) bool { return s.Forward }},
		{"s maps to backward", "s", func(s State) bool { return s.Backward }},
		{"ArrowDown maps to backward", "ArrowDown", func(s State) bool { return s.Backward }},
		{"a maps to left", "a", func(s State) bool { return s.Left }},
		{"ArrowLeft maps to left", "ArrowLeft", func(s State) bool { return s.Left }},
		{"d maps to right", "d", func(s State) bool { return s.Right }},
		{"ArrowRight maps to right", "ArrowRight", func(s State) bool { return s.Right }},
		{"Shift maps to crouch", "Shift", func(s State) bool { return s.Crouch }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAggregator()
			a.HandleKeyDown(tt.code)
			if !tt.get(a.Snapshot()) {
				t.Errorf("Key %q did not set expected flag", tt.code)
			}
			a.HandleKeyUp(tt.code)
			if tt.get(a.Snapshot()) {
				t.Errorf("Key %q flag stuck after key up", tt.code)
			}
		})
	}
}

func TestRunToggleIsPersistent(t *testing.T) {
	a := NewAggregator()

	// Тумблер бега не зависит от длительности удержания
	a.HandleKeyDown("Control")
	a.HandleKeyUp("Control")
	if !a.Snapshot().Run {
		t.Fatal("Run toggle should stay on after key release")
	}

	a.HandleKeyDown("Control")
	a.HandleKeyUp("Control")
	if a.Snapshot().Run {
		t.Error("Run toggle should flip off on second press")
	}
}

func TestKeyRepeatDoesNotRetrigger(t *testing.T) {
	a := NewAggregator()

	// Автоповтор зажатой клавиши не считается новым фронтом
	a.HandleKeyDown(" ")
	a.HandleKeyDown(" ")
	a.HandleKeyDown(" ")

	f := a.Frame()
	if !f.Action {
		t.Fatal("Expected action edge after key down")
	}
	f = a.Frame()
	if f.Action {
		t.Error("Action edge fired twice without a new key-down edge")
	}

	// Автоповтор тумблера бега не должен его дергать
	a.HandleKeyDown("Control")
	a.HandleKeyDown("Control")
	if !a.Snapshot().Run {
		t.Error("Run toggle flipped by key auto-repeat")
	}
}

func TestSnapshotIsIdempotent(t *testing.T) {
	a := NewAggregator()
	a.HandleKeyDown("w")
	a.HandleSwipe("up")

	s1 := a.Snapshot()
	s2 := a.Snapshot()
	if s1 != s2 {
		t.Error("Snapshot mutated state between calls")
	}

	// Snapshot не съедает фронты
	if !a.Frame().Action {
		t.Error("Snapshot consumed the action edge")
	}
}

func TestSwipeMapping(t *testing.T) {
	a := NewAggregator()

	a.HandleSwipe("up")
	a.HandleSwipe("left")
	a.HandleSwipe("right")

	f := a.Frame()
	if !f.Action {
		t.Error("Swipe up should be equivalent to the action key")
	}
	if !f.NudgeLeft || !f.NudgeRight {
		t.Error("Side swipes should produce one-shot nudges")
	}

	// Фронты одноразовые
	f = a.Frame()
	if f.Action || f.NudgeLeft || f.NudgeRight {
		t.Error("Edges survived a second Frame call")
	}
}

func TestJoystickSample(t *testing.T) {
	a := NewAggregator()
	a.HandleJoystick(JoystickSample{Active: true, Angle: 1.57, X: 0.0, Y: 1.0})

	s := a.Snapshot()
	if !s.Joystick.Active || s.Joystick.Y != 1.0 {
		t.Errorf("Joystick sample not stored: %+v", s.Joystick)
	}

	a.HandleJoystick(JoystickSample{Active: false})
	if a.Snapshot().Joystick.Active {
		t.Error("Joystick should be inactive after end event")
	}
}

func TestDanceToggleAndCancel(t *testing.T) {
	a := NewAggregator()
	a.HandleKeyDown("g")
	a.HandleKeyUp("g")
	if !a.Snapshot().Dance {
		t.Fatal("Dance toggle should be on")
	}

	a.CancelDance()
	if a.Snapshot().Dance {
		t.Error("Dance should be off after cancel")
	}
}

func TestCameraModeKeys(t *testing.T) {
	a := NewAggregator()
	a.HandleKeyDown("3")
	f := a.Frame()
	if f.CameraMode != 3 {
		t.Errorf("Expected camera mode 3, got %d", f.CameraMode)
	}
	if a.Frame().CameraMode != 0 {
		t.Error("Camera mode edge should reset after Frame")
	}
}
