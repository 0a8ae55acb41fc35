package game

import (
	"x-lanes/backend/internal/asset"
	"x-lanes/backend/internal/input"
	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/telemetry"
	"x-lanes/backend/internal/world"
)

// Context явный контекст симуляции. Передается конструкторам
// компонентов вместо глобального игрового объекта; каждый компонент
// забирает из контекста только нужные ему ссылки.
type Context struct {
	Physics   *physics.World
	Scene     *world.Manager
	Assets    *asset.Catalog
	Input     *input.Aggregator
	Scheduler *Scheduler
	Telemetry *telemetry.Manager // может быть nil, тогда телеметрия не пишется
}
