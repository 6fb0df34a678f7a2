// Package database 按配置打开 gorm 数据库连接
package database

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Driver   string `cfg:"driver" def:"sqlite" validate:"oneof=sqlite mysql"`
	DSN      string `cfg:"dsn"`
	Host     string `cfg:"host" def:"localhost"`
	Port     string `cfg:"port" def:"3306"`
	Database string `cfg:"database"`
	Username string `cfg:"username"`
	Password string `cfg:"password"`
	Charset  string `cfg:"charset" def:"utf8mb4"`
	MaxConns int    `cfg:"maxConns" def:"10"`
	MaxIdle  int    `cfg:"maxIdle" def:"5"`

	// gorm 自身的日志级别：silent, error, warn, info
	LogLevel string `cfg:"logLevel" def:"silent" validate:"omitempty,oneof=silent error warn info"`

	ConnMaxLifetime time.Duration `cfg:"connMaxLifetime" def:"1h"`
}

// DSNOf 返回连接串，未配置 DSN 时按驱动拼接
func DSNOf(options *Options) (string, error) {
	if options.DSN != "" {
		return options.DSN, nil
	}

	switch options.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			options.Username, options.Password, options.Host, options.Port, options.Database, options.Charset), nil
	case "sqlite", "":
		if options.Database == "" {
			return "file::memory:?cache=shared", nil
		}
		return options.Database, nil
	default:
		return "", errors.Errorf("unsupported driver: %s", options.Driver)
	}
}

// Open 打开数据库连接，options 为 nil 时使用内存 sqlite
func Open(options *Options) (*gorm.DB, error) {
	if options == nil {
		options = &Options{Driver: "sqlite"}
	}

	dsn, err := DSNOf(options)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch options.Driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported driver: %s", options.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logLevel(options.LogLevel))})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database failed", options.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB failed")
	}
	if options.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(options.MaxConns)
	}
	if options.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(options.MaxIdle)
	}
	if options.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(options.ConnMaxLifetime)
	}

	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}
