package telemetry

import (
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"
)

// Vector3 структура для 3D вектора
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Виды событий телеметрии
const (
	KindThrow      = "throw"
	KindImpulse    = "impulse"
	KindPinFrozen  = "pin_frozen"
	KindLaneReset  = "lane_reset"
	KindStageFlip  = "stage_flip"
	KindJump       = "jump"
	KindCameraMode = "camera_mode"
)

// Event запись телеметрии одного игрового события
type Event struct {
	Timestamp int64    `json:"timestamp"` // время в миллисекундах
	Kind      string   `json:"kind"`
	ObjectID  string   `json:"object_id,omitempty"`
	Position  *Vector3 `json:"position,omitempty"`
	Velocity  *Vector3 `json:"velocity,omitempty"`
	Impulse   *Vector3 `json:"impulse,omitempty"`
	Speed     float64  `json:"speed,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// Manager собирает события игры в кольцевой буфер и счетчики.
// Снимок отдается отладочному оверлею через JSON.
type Manager struct {
	mu         sync.RWMutex
	enabled    bool
	events     []Event
	maxEntries int
	counters   map[string]int
	started    time.Time
}

// NewManager создает менеджер телеметрии
func NewManager() *Manager {
	return &Manager{
		enabled:    true,
		events:     make([]Event, 0),
		maxEntries: 200, // храним последние 200 записей
		counters:   make(map[string]int),
		started:    time.Now(),
	}
}

// SetEnabled включает или выключает сбор телеметрии
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// LogImpulse записывает примененный к телу импульс
func (m *Manager) LogImpulse(kind, objectID string, position, impulse Vector3) {
	if m == nil {
		return
	}
	m.append(Event{
		Timestamp: time.Now().UnixMilli(),
		Kind:      kind,
		ObjectID:  objectID,
		Position:  &position,
		Impulse:   &impulse,
		Speed:     length(impulse),
	})
}

// LogEvent записывает событие без векторных данных
func (m *Manager) LogEvent(kind, objectID, note string) {
	if m == nil {
		return
	}
	m.append(Event{
		Timestamp: time.Now().UnixMilli(),
		Kind:      kind,
		ObjectID:  objectID,
		Note:      note,
	})
}

func (m *Manager) append(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return
	}
	m.events = append(m.events, e)
	if len(m.events) > m.maxEntries {
		m.events = m.events[1:]
	}
	m.counters[e.Kind]++
}

// Count возвращает счетчик событий данного вида
func (m *Manager) Count(kind string) int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[kind]
}

// Snapshot возвращает копии буфера событий и счетчиков
func (m *Manager) Snapshot() ([]Event, map[string]int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]Event, len(m.events))
	copy(events, m.events)
	counters := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}
	return events, counters
}

// ExportJSON сериализует снимок телеметрии для отладочного оверлея
func (m *Manager) ExportJSON() ([]byte, error) {
	events, counters := m.Snapshot()
	return json.Marshal(map[string]interface{}{
		"uptime_seconds": time.Since(m.started).Seconds(),
		"counters":       counters,
		"events":         events,
	})
}

// PrintSummary выводит сводку счетчиков в лог
func (m *Manager) PrintSummary() {
	if m == nil {
		return
	}
	_, counters := m.Snapshot()
	log.Printf("[Telemetry] Сводка событий: %v", counters)
}

func length(v Vector3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
