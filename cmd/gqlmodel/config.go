package main

import (
	"github.com/hatlonely/gqlmodel/binder"
	"github.com/hatlonely/gqlmodel/cfg"
	"github.com/hatlonely/gqlmodel/log"
	"github.com/hatlonely/gqlmodel/rdb/database"
	"github.com/pkg/errors"
)

type ServerOptions struct {
	Addr string `cfg:"addr" def:":8080"`
}

type Config struct {
	Database database.Options `cfg:"database"`
	Binder   binder.Options   `cfg:"binder"`
	Log      *log.Options     `cfg:"log"`
	Server   ServerOptions    `cfg:"server"`

	// 跳过建表和写入示例数据
	SkipSeed bool `cfg:"skipSeed"`
}

// loadConfig 读取配置文件，filename 为空时只使用默认值
func loadConfig(filename string) (*Config, error) {
	config := &Config{}
	if filename == "" {
		if err := cfg.Bind(map[string]any{}, config); err != nil {
			return nil, errors.WithMessage(err, "cfg.Bind failed")
		}
		return config, nil
	}

	if err := cfg.Load(filename, config); err != nil {
		return nil, errors.WithMessagef(err, "load config %s failed", filename)
	}
	return config, nil
}
