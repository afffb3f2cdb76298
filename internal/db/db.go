package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikh123/RealEstateHub/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func BuildDSN(cfg config.DB) string {
	addr := cfg.Host

	// Prefer Cloud SQL unix socket when INSTANCE_CONNECTION_NAME is provided.
	if cfg.InstanceConnectionName != "" {
		addr = fmt.Sprintf("unix(/cloudsql/%s)", cfg.InstanceConnectionName)
	} else if strings.HasPrefix(cfg.Host, "tcp(") || strings.HasPrefix(cfg.Host, "unix(") {
		// already wrapped
	} else if strings.HasPrefix(cfg.Host, "/") {
		addr = fmt.Sprintf("unix(%s)", cfg.Host)
	} else {
		addr = fmt.Sprintf("tcp(%s:%s)", cfg.Host, cfg.Port)
	}

	return fmt.Sprintf("%s:%s@%s/%s?charset=utf8mb4&parseTime=True&loc=UTC", cfg.User, cfg.Password, addr, cfg.Name)
}

func Connect(cfg config.DB) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(mysql.Open(BuildDSN(cfg)), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)

	return db, nil
}
