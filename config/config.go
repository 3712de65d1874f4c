package config

import (
	"fmt"
	"map-panel/models"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ========================================
// 패널 설정
// ========================================
type Config struct {
	// 서버
	Addr        string
	CORSOrigins string

	// 로봇 제어 서비스
	RobotBaseURL        string
	RobotTimeout        time.Duration
	RobotServiceEnabled bool
	UploadDir           string
	SeedObstacles       int // 비어 있는 로봇 측 저장소에 넣을 임의 장애물 수

	// 캔버스
	CanvasWidth  int
	CanvasHeight int
	ZoomLevel    float64

	// 동기화 / 애니메이션
	PollInterval      time.Duration // 0이면 자동 폴링 비활성화
	AnimationSteps    int
	AnimationInterval time.Duration

	// DB
	DBDriver      string // "sqlite" | "mysql"
	SQLitePath    string
	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string

	// 로깅
	LogLevel         string
	LogDir           string
	LogFlushSize     int
	LogFlushInterval time.Duration

	EnvFileLoaded bool
}

// Default - 기본 설정값
func Default() *Config {
	return &Config{
		Addr:                ":3000",
		CORSOrigins:         "http://localhost:5173, http://localhost:3000",
		RobotBaseURL:        "http://localhost:5000",
		RobotTimeout:        5 * time.Second,
		RobotServiceEnabled: true,
		UploadDir:           "static/uploads",
		CanvasWidth:         800,
		CanvasHeight:        600,
		ZoomLevel:           1,
		PollInterval:        0,
		AnimationSteps:      100,
		AnimationInterval:   10 * time.Millisecond,
		DBDriver:            "sqlite",
		SQLitePath:          "panel.db",
		MySQLPort:           3306,
		LogLevel:            "info",
		LogFlushSize:        50,
		LogFlushInterval:    10 * time.Second,
	}
}

// Load - .env 파일과 환경 변수에서 설정을 읽는다.
//
// .env 파일이 없으면 환경 변수만 사용하고 EnvFileLoaded를 false로 둔다.
func Load(files ...string) (*Config, error) {
	cfg := Default()
	cfg.EnvFileLoaded = godotenv.Load(files...) == nil

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Addr = envString("PANEL_ADDR", c.Addr)
	c.CORSOrigins = envString("CORS_ORIGINS", c.CORSOrigins)
	c.RobotBaseURL = strings.TrimRight(envString("ROBOT_BASE_URL", c.RobotBaseURL), "/")
	c.UploadDir = envString("UPLOAD_DIR", c.UploadDir)
	c.DBDriver = strings.ToLower(envString("DB_DRIVER", c.DBDriver))
	c.SQLitePath = envString("SQLITE_PATH", c.SQLitePath)
	c.MySQLHost = envString("MYSQL_HOST", c.MySQLHost)
	c.MySQLUser = envString("MYSQL_USER", c.MySQLUser)
	c.MySQLPassword = envString("MYSQL_PASSWORD", c.MySQLPassword)
	c.MySQLDatabase = envString("MYSQL_DATABASE", c.MySQLDatabase)
	c.LogLevel = envString("LOG_LEVEL", c.LogLevel)
	c.LogDir = envString("LOG_DIR", c.LogDir)

	var err error
	if c.RobotTimeout, err = envDuration("ROBOT_REQUEST_TIMEOUT", c.RobotTimeout); err != nil {
		return err
	}
	if c.PollInterval, err = envDuration("MAP_POLL_INTERVAL", c.PollInterval); err != nil {
		return err
	}
	if c.AnimationInterval, err = envDuration("ANIMATION_INTERVAL", c.AnimationInterval); err != nil {
		return err
	}
	if c.LogFlushInterval, err = envDuration("LOG_FLUSH_INTERVAL", c.LogFlushInterval); err != nil {
		return err
	}
	if c.CanvasWidth, err = envInt("CANVAS_WIDTH", c.CanvasWidth); err != nil {
		return err
	}
	if c.CanvasHeight, err = envInt("CANVAS_HEIGHT", c.CanvasHeight); err != nil {
		return err
	}
	if c.AnimationSteps, err = envInt("ANIMATION_STEPS", c.AnimationSteps); err != nil {
		return err
	}
	if c.LogFlushSize, err = envInt("LOG_FLUSH_SIZE", c.LogFlushSize); err != nil {
		return err
	}
	if c.SeedObstacles, err = envInt("SEED_OBSTACLES", c.SeedObstacles); err != nil {
		return err
	}
	if c.MySQLPort, err = envInt("MYSQL_PORT", c.MySQLPort); err != nil {
		return err
	}
	if c.ZoomLevel, err = envFloat("ZOOM_LEVEL", c.ZoomLevel); err != nil {
		return err
	}
	if c.RobotServiceEnabled, err = envBool("ROBOT_SERVICE_ENABLED", c.RobotServiceEnabled); err != nil {
		return err
	}
	return nil
}

// Validate - 설정값 검증
func (c *Config) Validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive: %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	if !models.ValidZoom(c.ZoomLevel) {
		return fmt.Errorf("ZOOM_LEVEL must be between %v and %v: %v", models.MinZoom, models.MaxZoom, c.ZoomLevel)
	}
	if c.AnimationSteps <= 0 {
		return fmt.Errorf("ANIMATION_STEPS must be positive: %d", c.AnimationSteps)
	}
	if c.AnimationInterval <= 0 {
		return fmt.Errorf("ANIMATION_INTERVAL must be positive: %v", c.AnimationInterval)
	}
	if c.SeedObstacles < 0 {
		return fmt.Errorf("SEED_OBSTACLES must not be negative: %d", c.SeedObstacles)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("MAP_POLL_INTERVAL must not be negative: %v", c.PollInterval)
	}
	switch c.DBDriver {
	case "sqlite":
	case "mysql":
		if c.MySQLHost == "" || c.MySQLUser == "" || c.MySQLPassword == "" || c.MySQLDatabase == "" {
			return fmt.Errorf("MySQL 환경 변수가 모두 설정되지 않았습니다: MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER: %q", c.DBDriver)
	}
	return nil
}

// MySQLDSN - MySQL 접속 문자열
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
