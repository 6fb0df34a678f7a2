// Package cfg 从配置文件加载选项结构体
//
// 支持的文件格式按后缀选择：
//
//	.json       -> encoding/json
//	.yaml/.yml  -> gopkg.in/yaml.v3
//	.toml       -> github.com/BurntSushi/toml
//	.ini        -> gopkg.in/ini.v1
//
// 解码后的数据按 cfg tag 映射到结构体，随后补齐 def tag 默认值并执行 validate tag 校验。
package cfg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/hatlonely/gqlmodel/cfg/validator"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Load 读取配置文件并绑定到 object
func Load(filename string, object any) error {
	if filename == "" {
		return errors.New("filename cannot be empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read config file %s failed", filename)
	}

	return LoadData(strings.ToLower(filepath.Ext(filename)), data, object)
}

// LoadData 按格式解码 data 并绑定到 object，format 为带点的文件后缀
func LoadData(format string, data []byte, object any) error {
	raw, err := decode(format, data)
	if err != nil {
		return err
	}
	return Bind(raw, object)
}

// Bind 将通用的 map 数据绑定到 object，并补齐默认值、执行校验
func Bind(raw map[string]any, object any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "cfg",
		Result:           object,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrap(err, "mapstructure.NewDecoder failed")
	}
	if err := decoder.Decode(raw); err != nil {
		return errors.Wrap(err, "bind config failed")
	}

	if err := SetDefaults(object); err != nil {
		return errors.WithMessage(err, "SetDefaults failed")
	}

	if err := validator.ValidateStruct(object); err != nil {
		return errors.Wrap(err, "validate config failed")
	}

	return nil
}

func decode(format string, data []byte) (map[string]any, error) {
	raw := map[string]any{}

	switch format {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "decode json failed")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "decode yaml failed")
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "decode toml failed")
		}
	case ".ini":
		file, err := ini.Load(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode ini failed")
		}
		for _, section := range file.Sections() {
			values := map[string]any{}
			for k, v := range section.KeysHash() {
				values[k] = v
			}
			if section.Name() == ini.DefaultSection {
				for k, v := range values {
					raw[k] = v
				}
				continue
			}
			raw[section.Name()] = values
		}
	default:
		return nil, errors.Errorf("unsupported config format: %s", format)
	}

	return raw, nil
}
