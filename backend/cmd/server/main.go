package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"

	"x-lanes/backend/internal/asset"
	"x-lanes/backend/internal/config"
	"x-lanes/backend/internal/game"
	"x-lanes/backend/internal/input"
	"x-lanes/backend/internal/physics"
	"x-lanes/backend/internal/telemetry"
	"x-lanes/backend/internal/transport/ws"
	"x-lanes/backend/internal/world"
)

// requiredClips клипы, без которых персонаж не может анимироваться.
// Отсутствие любого из них фатально на старте; в рантайме пропавший
// клип лишь пропускает переход.
var requiredClips = []string{"Idle", "Walking", "Running", "Sneaking", "Crouching", "Dancing"}

func main() {
	cfg := config.Load()

	catalog, err := asset.Load(cfg.AssetManifest)
	if err != nil {
		log.Fatalf("Ошибка загрузки манифеста ассетов: %v", err)
	}
	if err := catalog.RequireClips(requiredClips...); err != nil {
		log.Fatalf("Неполный набор клипов анимации: %v", err)
	}

	// Физический мир и сцена дорожки
	phys := physics.NewWorld(physics.DefaultWorldConfig())
	scene := world.NewManager()
	if err := world.BuildLaneScene(world.NewFactory(scene, phys)); err != nil {
		log.Fatalf("Ошибка построения сцены: %v", err)
	}

	agg := input.NewAggregator()
	tele := telemetry.NewManager()
	tele.SetEnabled(cfg.TelemetryEnabled)

	ctx := &game.Context{
		Physics:   phys,
		Scene:     scene,
		Assets:    catalog,
		Input:     agg,
		Scheduler: game.NewScheduler(),
		Telemetry: tele,
	}

	// Камера стартует за спиной персонажа
	playerEye := mgl64.Vec3{-1.2, 2.5, -1.5}
	cam := game.NewCamera(mgl64.Vec3{-1.2, 2.5, -6.5}, playerEye)
	rig := game.NewFollowRig(phys, cam, world.PlayerID)
	director := game.NewCameraDirector(phys, cam, rig, world.PlayerID)

	character := game.NewCharacterController(ctx, cam, world.PlayerID)
	lane := game.NewLaneMachine(ctx, time.Duration(cfg.SettleDelayMs)*time.Millisecond)
	lane.SetThrowPower(float64(cfg.ThrowPower))
	session := game.NewSession(ctx, character, lane, director)

	wsServer := ws.NewWSServer(scene, phys, agg)
	lane.OnEvent(func(e game.LaneEvent) {
		wsServer.Broadcast(ws.NewLaneEventMessage(e))
	})

	// Игровой цикл: сессия, физика, камера
	ticker := game.NewGameTicker(cfg.TargetTPS, log.Default())
	ticker.RegisterSystem(session)
	ticker.RegisterSystem(game.NewPhysicsSystem(phys))
	ticker.RegisterSystem(game.NewCameraSystem(rig))
	if err := ticker.Start(); err != nil {
		log.Fatalf("Ошибка запуска игрового цикла: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	router.GET("/ws", gin.WrapF(wsServer.HandleWS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"tick_count": ticker.GetTickCount(),
			"clients":    wsServer.ClientCount(),
		})
	})

	router.GET("/debug/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, ticker.GetStats())
	})

	router.GET("/debug/telemetry", func(c *gin.Context) {
		data, err := tele.ExportJSON()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", data)
	})

	// Статика фронтенда
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Запуск сервера на порту %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	// Корректное завершение по сигналу
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Остановка сервера...")
	ticker.Stop()
	lane.Dispose()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	}
	tele.PrintSummary()
}
