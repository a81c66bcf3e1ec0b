package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"hdwallet-core/pkg/logger"
)

type Config struct {
	App AppConfig `mapstructure:"app"`
	HD  HDConfig  `mapstructure:"hd"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

// HDConfig 派生引擎的默认参数，请求里没有指定时使用
type HDConfig struct {
	Family          string `mapstructure:"family"`
	CardanoType     string `mapstructure:"cardano_type"`
	XPrivateVersion string `mapstructure:"xprivate_version"` // hex, 空则用 chaincfg.MainNetParams
	XPublicVersion  string `mapstructure:"xpublic_version"`
	MaxRange        int    `mapstructure:"max_range"` // 单次 dump 最多展开的节点数
	Workers         int    `mapstructure:"workers"`
}

var Global Config

// Load 读取配置文件和环境变量 (HD_WORKERS 覆盖 hd.workers)
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logger.Warn("Config file not found, using defaults and environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Init 加载配置到 Global，失败直接退出
func Init() {
	cfg, err := Load()
	if err != nil {
		logger.Fatal(err.Error())
	}
	Global = *cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_port", "8080")

	v.SetDefault("hd.family", "secp256k1")
	v.SetDefault("hd.cardano_type", "icarus")
	v.SetDefault("hd.xprivate_version", "")
	v.SetDefault("hd.xpublic_version", "")
	v.SetDefault("hd.max_range", 1000)
	v.SetDefault("hd.workers", 4)
}
