package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"x-lanes/backend/internal/input"
	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/world"
)

const (
	DefaultUpdateInterval = 50 * time.Millisecond // Интервал отправки обновлений
)

// MessageHandler тип функции обработчика сообщений
type MessageHandler func(conn *SafeWriter, message interface{}) error

// WSServer принимает WebSocket соединения, кормит агрегатор ввода
// и стримит клиентам состояние физического мира.
type WSServer struct {
	upgrader websocket.Upgrader
	scene    *world.Manager
	phys     *physics.World
	agg      *input.Aggregator

	handlers map[string]MessageHandler

	clients   map[*SafeWriter]chan struct{}
	clientsMu sync.Mutex
}

// NewWSServer создает новый WebSocket сервер
func NewWSServer(scene *world.Manager, phys *physics.World, agg *input.Aggregator) *WSServer {
	s := &WSServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		scene:    scene,
		phys:     phys,
		agg:      agg,
		handlers: make(map[string]MessageHandler),
		clients:  make(map[*SafeWriter]chan struct{}),
	}
	s.registerHandlers()
	return s
}

// HandleWS обрабатывает WebSocket соединение: отправляет начальную
// сцену, запускает потоковую передачу и читает входящие сообщения.
func (s *WSServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Ошибка при установке соединения: %v", err)
		return
	}

	writer := NewSafeWriter(conn)
	done := make(chan struct{})

	s.clientsMu.Lock()
	s.clients[writer] = done
	s.clientsMu.Unlock()

	log.Printf("[WS] Клиент подключен: %s", r.RemoteAddr)

	defer func() {
		close(done)
		s.clientsMu.Lock()
		delete(s.clients, writer)
		s.clientsMu.Unlock()
		writer.Close()
		log.Printf("[WS] Клиент отключен: %s", r.RemoteAddr)
	}()

	s.sendInitialObjects(writer)
	go s.startClientStreaming(writer, done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] Ошибка при чтении сообщения: %v", err)
			return
		}

		msgType, err := GetMessageType(data)
		if err != nil {
			log.Printf("[WS] Получено сообщение без типа: %v", err)
			continue
		}

		handler, ok := s.handlers[msgType]
		if !ok {
			log.Printf("[WS] Нет обработчика для типа сообщения: %s", msgType)
			continue
		}

		parsed, err := ParseMessage(data)
		if err != nil {
			log.Printf("[WS] Ошибка разбора сообщения %s: %v", msgType, err)
			continue
		}

		if err := handler(writer, parsed); err != nil {
			log.Printf("[WS] Ошибка обработки сообщения %s: %v", msgType, err)
		}
	}
}

// sendInitialObjects отправляет клиенту все объекты сцены
func (s *WSServer) sendInitialObjects(writer *SafeWriter) {
	objects := s.scene.GetAllObjects()
	log.Printf("[WS] Отправка начальных объектов клиенту (%d объектов)", len(objects))

	for _, obj := range objects {
		msg := createMessageFor(obj)
		if err := writer.WriteJSON(msg); err != nil {
			log.Printf("[WS] Ошибка при отправке начального объекта %s: %v", obj.ID, err)
		}
	}
}

// createMessageFor собирает сообщение создания по форме объекта
func createMessageFor(obj *world.Object) *CreateMessage {
	msg := &CreateMessage{
		Type:       MessageTypeCreate,
		ID:         obj.ID,
		ObjectType: obj.Kind(),
		Color:      obj.Color,
		Mesh:       obj.Mesh,
		X:          obj.RestPosition.X(),
		Y:          obj.RestPosition.Y(),
		Z:          obj.RestPosition.Z(),
		Mass:       obj.Mass,
		ServerTime: GetCurrentServerTime(),
	}

	switch obj.Shape.Kind {
	case physics.SPHERE:
		msg.Radius = obj.Shape.Sphere.Radius
	case physics.BOX:
		msg.Width = obj.Shape.Box.Width
		msg.Height = obj.Shape.Box.Height
		msg.Depth = obj.Shape.Box.Depth
	case physics.CYLINDER:
		msg.Radius = obj.Shape.Cylinder.Radius
		msg.Height = obj.Shape.Cylinder.Height
	case physics.CAPSULE:
		msg.Radius = obj.Shape.Capsule.Radius
		msg.Height = obj.Shape.Capsule.Height
	}
	return msg
}

// Broadcast отправляет сообщение всем подключенным клиентам
func (s *WSServer) Broadcast(v interface{}) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(v); err != nil {
			log.Printf("[WS] Ошибка при отправке сообщения клиенту: %v", err)
		}
	}
}

// ClientCount возвращает число подключенных клиентов
func (s *WSServer) ClientCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}
