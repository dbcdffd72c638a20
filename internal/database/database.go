// Package database opens the GORM store the services share.
package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"repairshop/common"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config selects and locates the store
type Config struct {
	Driver    string `env:"DRIVER" envDefault:"sqlite"`
	SQLiteDSN string `env:"SQLITE_DSN" envDefault:"file::memory:?cache=shared"`
	Host      string `env:"HOST"`
	Port      string `env:"PORT" envDefault:"3306"`
	User      string `env:"USER"`
	Pass      string `env:"PASS"`
	Name      string `env:"NAME"`
	Debug     bool
}

// MySQLDSN builds the go-sql-driver DSN for the configured server.
func (c Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Pass, c.Host, c.Port, c.Name)
}

func (c Config) validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("sqlite dsn is required")
		}
	case DriverMySQL:
		if c.Host == "" || c.User == "" || c.Name == "" {
			return fmt.Errorf("missing required mysql settings (host, user, name)")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	return nil
}

// Open connects, pings and tunes the pool for the configured driver.
func Open(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	var dialector gorm.Dialector
	if cfg.Driver == DriverMySQL {
		dialector = mysql.Open(cfg.MySQLDSN())
	} else {
		dialector = sqlite.Open(cfg.SQLiteDSN)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// every in-memory connection is its own database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("database connected", zap.String("driver", cfg.Driver))
	return db, nil
}

// Migrate creates or updates the customers and tickets tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&common.Customer{}, &common.Ticket{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
