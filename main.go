package main

import (
	"context"
	"fmt"
	"map-panel/config"
	"map-panel/handlers"
	"map-panel/logger"
	"map-panel/services"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env 파일 + 환경 변수
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	log, logCloser, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	if !cfg.EnvFileLoaded {
		log.Warnf("⚠️  .env 파일을 찾을 수 없습니다.")
	}

	db, err := services.OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("DB 초기화 실패: %w", err)
	}
	log.Infof("✅ DB 연결 완료 (%s)", cfg.DBDriver)

	// flushSize개마다 또는 flushInterval마다 일괄 저장
	events := services.NewEventLog(db, log, cfg.LogFlushSize, cfg.LogFlushInterval)
	events.Start()
	defer events.Stop() // 종료 시 남은 로그 저장

	robot := services.NewRobotClient(cfg.RobotBaseURL, cfg.RobotTimeout)
	canvas := services.NewGGCanvas(cfg.CanvasWidth, cfg.CanvasHeight)

	opts := services.DefaultPanelOptions()
	opts.Zoom = cfg.ZoomLevel
	opts.AnimationSteps = cfg.AnimationSteps
	opts.AnimationInterval = cfg.AnimationInterval
	panel := services.NewPanel(robot, canvas, events, log, opts)
	defer panel.Close()

	manager := handlers.NewClientManager(log)
	go manager.Start()
	defer manager.Stop()
	panel.SetBroadcastFunc(manager.BroadcastMessage)

	dataSync := services.NewDataSync(robot, panel, events, log)
	poller := services.NewPoller(dataSync, cfg.PollInterval)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/", handlers.HandleIndex)

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"clients":   manager.GetClientCount(),
			"obstacles": panel.Store().Len(),
			"time":      time.Now().Format(time.RFC3339),
		})
	})

	handlers.NewPanelHandler(panel, dataSync, log).Register(api.Group("/panel"))
	handlers.NewLogHandler(db).Register(api.Group("/logs"))

	// 로봇 측 엔드포인트 (/upload, /map_data, /move_bot ...)
	if cfg.RobotServiceEnabled {
		mapping := services.NewMappingService(db)
		seeded, err := services.NewObstacleSeeder(time.Now().UnixNano()).
			Seed(mapping, float64(cfg.CanvasWidth), float64(cfg.CanvasHeight), cfg.SeedObstacles)
		if err != nil {
			return fmt.Errorf("장애물 시드 실패: %w", err)
		}
		if seeded > 0 {
			log.Infof("🌱 임의 장애물 %d개 생성", seeded)
		}

		robotHandler, err := handlers.NewRobotHandler(mapping, cfg.UploadDir, log)
		if err != nil {
			return fmt.Errorf("업로드 디렉터리 생성 실패: %w", err)
		}
		robotHandler.Register(app)
		app.Static("/"+strings.TrimPrefix(filepath.ToSlash(cfg.UploadDir), "./"), cfg.UploadDir)
	}

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/web", websocket.New(manager.HandleWebClientWebSocket(panel.Snapshot)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.Addr)
	}()

	log.Infof("🚀 서버 시작: http://localhost%s", cfg.Addr)
	log.Infof("📡 WebSocket: ws://localhost%s/websocket/web", cfg.Addr)
	log.Infof("🤖 로봇 서비스: %s", cfg.RobotBaseURL)

	// 첫 화면용 동기화. 실패해도 서버는 계속 뜬다.
	if _, err := dataSync.Sync(); err != nil {
		log.Warnf("⚠️ 초기 맵 동기화 실패: %v", err)
	}
	poller.Start()
	defer poller.Stop()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Infof("🛑 서버 종료 중...")
	return app.ShutdownWithTimeout(5 * time.Second)
}
