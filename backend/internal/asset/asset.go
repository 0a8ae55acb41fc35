package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
)

// ErrMissingAsset ожидаемый меш или клип анимации отсутствует после импорта.
// Ошибка этого класса фатальна на старте: сцена не строится.
var ErrMissingAsset = errors.New("asset: missing asset")

// Clip именованный клип анимации с диапазоном кадров
type Clip struct {
	Name  string `json:"name"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Loop  bool   `json:"loop"`
	Speed float64 `json:"speed"`

	mu      sync.Mutex
	playing bool
}

// Play запускает воспроизведение клипа
func (c *Clip) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
}

// Stop останавливает воспроизведение клипа
func (c *Clip) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

// Playing сообщает, воспроизводится ли клип
func (c *Clip) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Mesh именованный меш импортированной модели.
// Геометрию рендерит клиент, серверу нужны только имя и привязка к телу.
type Mesh struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Catalog результат импорта ассета: именованные меши и клипы
type Catalog struct {
	meshes map[string]*Mesh
	clips  map[string]*Clip
}

// manifest формат JSON-манифеста ассетов
type manifest struct {
	Meshes []Mesh `json:"meshes"`
	Clips  []Clip `json:"clips"`
}

// Load читает манифест ассетов и строит каталог
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает манифест из байтов
func Parse(data []byte) (*Catalog, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("asset: parse manifest: %w", err)
	}

	c := &Catalog{
		meshes: make(map[string]*Mesh, len(m.Meshes)),
		clips:  make(map[string]*Clip, len(m.Clips)),
	}
	for i := range m.Meshes {
		mesh := m.Meshes[i]
		c.meshes[mesh.Name] = &mesh
	}
	for i := range m.Clips {
		clip := &m.Clips[i]
		c.clips[clip.Name] = clip
	}

	log.Printf("[Asset] Каталог загружен: %d мешей, %d клипов", len(c.meshes), len(c.clips))
	return c, nil
}

// Mesh возвращает меш по имени или ErrMissingAsset
func (c *Catalog) Mesh(name string) (*Mesh, error) {
	mesh, ok := c.meshes[name]
	if !ok {
		return nil, fmt.Errorf("%w: mesh %q", ErrMissingAsset, name)
	}
	return mesh, nil
}

// Clip возвращает клип по имени или ErrMissingAsset
func (c *Catalog) Clip(name string) (*Clip, error) {
	clip, ok := c.clips[name]
	if !ok {
		return nil, fmt.Errorf("%w: clip %q", ErrMissingAsset, name)
	}
	return clip, nil
}

// RequireClips проверяет наличие всех перечисленных клипов.
// Используется на старте, чтобы падать сразу, а не посреди игры.
func (c *Catalog) RequireClips(names ...string) error {
	for _, name := range names {
		if _, err := c.Clip(name); err != nil {
			return err
		}
	}
	return nil
}
