package providers

import (
	"ctad/internal/structures"
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "CTAD_LOG_LEVEL")
	viper.BindEnv("redis.addr", "CTAD_REDIS_ADDR")
	viper.BindEnv("redis.password", "CTAD_REDIS_PASSWORD")
	viper.BindEnv("staticData.refreshInterval", "CTAD_CACHE_REFRESH_INTERVAL")
	viper.BindEnv("sweep.interval", "CTAD_SWEEP_INTERVAL")
	viper.BindEnv("cohorts.baseUrl", "CTAD_COHORTS_BASE_URL")
	viper.BindEnv("cache.enabled", "CTAD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CTAD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CTADeliveryDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
