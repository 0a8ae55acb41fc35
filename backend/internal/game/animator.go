package game

import (
	"log"

	"x-lanes/backend/internal/asset"
)

// AnimState состояние анимации персонажа
type AnimState int

const (
	AnimIdle AnimState = iota
	AnimWalk
	AnimRun
	AnimSneak
	AnimCrouchIdle
	AnimDance
)

// ClipName возвращает имя клипа для состояния
func (s AnimState) ClipName() string {
	switch s {
	case AnimWalk:
		return "Walking"
	case AnimRun:
		return "Running"
	case AnimSneak:
		return "Sneaking"
	case AnimCrouchIdle:
		return "Crouching"
	case AnimDance:
		return "Dancing"
	}
	return "Idle"
}

// selectAnim выбирает состояние анимации из флагов движения.
// Чистая функция от {движется, присел, бежит, танцует}.
func selectAnim(moving, crouching, running, dancing bool) AnimState {
	switch {
	case moving && crouching:
		return AnimSneak
	case moving && running:
		return AnimRun
	case moving:
		return AnimWalk
	case dancing:
		return AnimDance
	case crouching:
		return AnimCrouchIdle
	default:
		return AnimIdle
	}
}

// Animator переключает клипы анимации по состоянию контроллера.
// Отсутствующий клип не фатален во время игры: переход пропускается
// с предупреждением в лог, по одному на клип.
type Animator struct {
	catalog *asset.Catalog
	current *asset.Clip
	state   AnimState
	warned  map[string]bool
	started bool
}

// NewAnimator создает аниматор поверх каталога ассетов
func NewAnimator(catalog *asset.Catalog) *Animator {
	return &Animator{
		catalog: catalog,
		warned:  make(map[string]bool),
	}
}

// State возвращает текущее состояние анимации
func (a *Animator) State() AnimState {
	return a.state
}

// Apply переключает клип, если состояние изменилось
func (a *Animator) Apply(state AnimState) {
	if a.started && state == a.state {
		return
	}
	a.state = state
	a.started = true

	if a.catalog == nil {
		return
	}
	clip, err := a.catalog.Clip(state.ClipName())
	if err != nil {
		if !a.warned[state.ClipName()] {
			a.warned[state.ClipName()] = true
			log.Printf("[Anim] Клип %q отсутствует, переход пропущен: %v", state.ClipName(), err)
		}
		return
	}
	if a.current != nil {
		a.current.Stop()
	}
	clip.Play()
	a.current = clip
}
