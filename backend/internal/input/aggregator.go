package input

import (
	"strings"
	"sync"
)

// Логические клавиши после разрешения алиасов
const (
	keyForward  = "forward"
	keyBackward = "backward"
	keyLeft     = "left"
	keyRight    = "right"
	keyCrouch   = "crouch"
	keyRun      = "run"
	keyAction   = "action"
	keyDance    = "dance"
	keyDebug    = "debug"
)

// keyAliases таблица алиасов: wasd и стрелки дают одни и те же флаги
var keyAliases = map[string]string{
	"w":          keyForward,
	"arrowup":    keyForward,
	"s":          keyBackward,
	"arrowdown":  keyBackward,
	"a":          keyLeft,
	"arrowleft":  keyLeft,
	"d":          keyRight,
	"arrowright": keyRight,
	"shift":      keyCrouch,
	"control":    keyRun,
	" ":          keyAction,
	"space":      keyAction,
	"enter":      keyAction,
	"g":          keyDance,
	"i":          keyDebug,
}

// JoystickSample снимок виртуального джойстика
type JoystickSample struct {
	Active bool
	Angle  float64 // радианы
	X      float64 // [-1, 1]
	Y      float64 // [-1, 1]
}

// State снимок удерживаемых флагов. Чистые данные, без фронтов.
type State struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Crouch   bool // модификатор, действует пока удерживается
	Run      bool // персистентный тумблер, не зависит от удержания
	Dance    bool // тумблер
	Joystick JoystickSample
}

// Frame снимок на один тик симуляции: состояние плюс одноразовые фронты.
// Фронты выдаются ровно один раз - Frame() вызывается раз в тик.
type Frame struct {
	State
	Action     bool // бросок или прыжок, в зависимости от режима
	NudgeLeft  bool // одноразовый сдвиг шара влево
	NudgeRight bool // одноразовый сдвиг шара вправо
	CameraMode int  // 1..4, 0 если не запрошен
	Debug      bool
}

// Aggregator сводит клавиатуру, свайпы и джойстик в единое состояние.
// Методы Handle* вызываются из горутины WebSocket и никогда не блокируют;
// Frame() читается один раз за тик симуляции.
type Aggregator struct {
	mu       sync.Mutex
	pressed  map[string]bool
	run      bool
	dance    bool
	joystick JoystickSample

	// накопленные фронты до следующего Frame()
	action     bool
	nudgeLeft  bool
	nudgeRight bool
	cameraMode int
	debug      bool
}

// NewAggregator создает пустой агрегатор ввода
func NewAggregator() *Aggregator {
	return &Aggregator{
		pressed: make(map[string]bool),
	}
}

// HandleKeyDown обрабатывает нажатие клавиши. Автоповтор браузера
// игнорируется: фронт считается только при переходе из отпущенного
// состояния.
func (a *Aggregator) HandleKeyDown(code string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key, known := resolveKey(code)
	if !known {
		if mode, ok := cameraModeKey(code); ok {
			a.cameraMode = mode
		}
		return
	}
	if a.pressed[key] {
		return // автоповтор
	}
	a.pressed[key] = true

	switch key {
	case keyRun:
		a.run = !a.run
	case keyDance:
		a.dance = !a.dance
	case keyAction:
		a.action = true
	case keyDebug:
		a.debug = true
	}
}

// HandleKeyUp обрабатывает отпускание клавиши
func (a *Aggregator) HandleKeyUp(code string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key, known := resolveKey(code)
	if !known {
		return
	}
	a.pressed[key] = false
}

// HandleSwipe обрабатывает свайп с четырехсторонней классификацией.
// Свайп вверх эквивалентен клавише действия, свайпы в стороны дают
// одноразовый сдвиг, а не непрерывное движение.
func (a *Aggregator) HandleSwipe(direction string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch strings.ToLower(direction) {
	case "up":
		a.action = true
	case "left":
		a.nudgeLeft = true
	case "right":
		a.nudgeRight = true
	}
}

// HandleJoystick обрабатывает снимок виртуального джойстика
func (a *Aggregator) HandleJoystick(sample JoystickSample) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.joystick = sample
}

// Snapshot возвращает чистый снимок удерживаемых флагов.
// Идемпотентен: не трогает фронты и внутреннее состояние.
func (a *Aggregator) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Aggregator) snapshotLocked() State {
	return State{
		Forward:  a.pressed[keyForward],
		Backward: a.pressed[keyBackward],
		Left:     a.pressed[keyLeft],
		Right:    a.pressed[keyRight],
		Crouch:   a.pressed[keyCrouch],
		Run:      a.run,
		Dance:    a.dance,
		Joystick: a.joystick,
	}
}

// Frame возвращает снимок состояния вместе с накопленными фронтами
// и сбрасывает фронты. Вызывается ровно один раз за тик.
func (a *Aggregator) Frame() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()

	f := Frame{
		State:      a.snapshotLocked(),
		Action:     a.action,
		NudgeLeft:  a.nudgeLeft,
		NudgeRight: a.nudgeRight,
		CameraMode: a.cameraMode,
		Debug:      a.debug,
	}
	a.action = false
	a.nudgeLeft = false
	a.nudgeRight = false
	a.cameraMode = 0
	a.debug = false
	return f
}

// CancelDance снимает тумблер танца. Вызывается контроллером,
// когда движение или приседание прерывает танец.
func (a *Aggregator) CancelDance() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dance = false
}

// resolveKey нормализует код клавиши и разрешает алиасы
func resolveKey(code string) (string, bool) {
	key, ok := keyAliases[strings.ToLower(code)]
	return key, ok
}

// cameraModeKey распознает клавиши переключения режима камеры 1..4
func cameraModeKey(code string) (int, bool) {
	switch code {
	case "1":
		return 1, true
	case "2":
		return 2, true
	case "3":
		return 3, true
	case "4":
		return 4, true
	}
	return 0, false
}
