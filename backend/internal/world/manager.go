package world

import "sync"

// Manager хранит объекты сцены
type Manager struct {
	objects map[string]*Object
	order   []string
	mu      sync.RWMutex
}

// NewManager создает пустой менеджер сцены
func NewManager() *Manager {
	return &Manager{
		objects: make(map[string]*Object),
	}
}

// AddObject добавляет объект в менеджер
func (m *Manager) AddObject(obj *Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.objects[obj.ID]; !exists {
		m.order = append(m.order, obj.ID)
	}
	m.objects[obj.ID] = obj
}

// GetObject возвращает объект по идентификатору
func (m *Manager) GetObject(id string) (*Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, exists := m.objects[id]
	return obj, exists
}

// GetAllObjects возвращает все объекты сцены в порядке создания
func (m *Manager) GetAllObjects() []*Object {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Object, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.objects[id])
	}
	return result
}

// Pins возвращает все кегли в порядке создания
func (m *Manager) Pins() []*Object {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Object, 0, 10)
	for _, id := range m.order {
		if obj := m.objects[id]; obj.Kind() == "pin" {
			result = append(result, obj)
		}
	}
	return result
}
