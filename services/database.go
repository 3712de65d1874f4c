package services

import (
	"fmt"
	"map-panel/config"
	"map-panel/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase - 설정에 따라 MySQL 또는 SQLite에 연결하고 마이그레이션한다
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.MySQLDSN())
	default:
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("DB 연결 실패: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate - 테이블 자동 생성
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.PanelLog{}, &models.MappingRecord{}); err != nil {
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}
	return nil
}
