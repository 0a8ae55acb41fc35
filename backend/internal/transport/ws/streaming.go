package ws

import (
	"log"
	"math"
	"time"
)

// startClientStreaming запускает потоковую передачу состояния мира клиенту.
// Раз в интервал собирается пакет позиций всех объектов сцены; замороженные
// и статические тела тоже попадают в пакет, клиент сам решает, что рисовать.
func (s *WSServer) startClientStreaming(writer *SafeWriter, done <-chan struct{}) {
	ticker := time.NewTicker(DefaultUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			updates := s.collectUpdates()
			if len(updates) == 0 {
				continue
			}
			if err := writer.WriteJSON(NewUpdateMessage(updates)); err != nil {
				log.Printf("[WS] Ошибка потоковой передачи: %v", err)
				return
			}
		}
	}
}

// collectUpdates снимает позиции и ориентации всех объектов сцены
func (s *WSServer) collectUpdates() []ObjectUpdate {
	objects := s.scene.GetAllObjects()
	updates := make([]ObjectUpdate, 0, len(objects))

	for _, obj := range objects {
		pos, orn, _, ok := s.phys.BodyState(obj.ID)
		if !ok {
			continue
		}
		updates = append(updates, ObjectUpdate{
			ID: obj.ID,
			X:  safeValue(pos.X()),
			Y:  safeValue(pos.Y()),
			Z:  safeValue(pos.Z()),
			QX: safeValue(orn.X()),
			QY: safeValue(orn.Y()),
			QZ: safeValue(orn.Z()),
			QW: safeValue(orn.W),
		})
	}
	return updates
}

// safeValue заменяет NaN на ноль, чтобы не ломать JSON сериализацию
func safeValue(v float64) float64 {
	if math.IsNaN(v) {
		return 0.0
	}
	return v
}
