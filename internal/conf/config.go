package conf

import (
	"os"

	"github.com/pagedb/pagedb/internal/logger"
	util "github.com/pagedb/pagedb/internal/utils"

	"gopkg.in/ini.v1"
)

/*
*
[pagedb]
data_dir	= data
pool_size	= 64

[logs]
log_level	= info
log_infos	= /var/log/pagedb/pagedb.log
*/
type Cfg struct {
	Raw *ini.File

	DataDir  string
	PoolSize int

	LogInfos string `default:"" yaml:"log_infos" json:"log_infos,omitempty"`
	LogLevel string `default:"info" yaml:"log_level" json:"log_level,omitempty"`
}

func NewCfg() *Cfg {
	opts := util.DefaultOptions()
	return &Cfg{
		Raw:      ini.Empty(),
		DataDir:  opts.DataDir,
		PoolSize: opts.PoolSize,
		LogLevel: "info",
	}
}

// Load reads the ini file at configPath. A missing or unparsable file
// leaves the defaults in place.
func (cfg *Cfg) Load(configPath string) *Cfg {
	iniFile, err := cfg.loadConfiguration(configPath)
	if err != nil {
		logger.Errorf("load configuration: %v", err)
		os.Exit(1)
	}
	cfg.Raw = iniFile

	cfg.parsePagedbCfg(cfg.Raw.Section("pagedb"))
	cfg.parseLogsCfg(cfg.Raw.Section("logs"))
	return cfg
}

func (cfg *Cfg) loadConfiguration(configPath string) (*ini.File, error) {
	configFile := "conf/pagedb.ini"
	if configPath != "" {
		configFile = configPath
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		logger.Debugf("config file %s not found, using defaults", configFile)
		return ini.Empty(), nil
	}

	parsedFile, err := ini.Load(configFile)
	if err != nil {
		logger.Debugf("parse config file %s failed: %v, using defaults", configFile, err)
		return ini.Empty(), nil
	}

	logger.Debugf("loaded config file %s", configFile)
	return parsedFile, nil
}

func (cfg *Cfg) parsePagedbCfg(section *ini.Section) *Cfg {
	if section == nil {
		return cfg
	}

	dataDir, err := valueAsString(section, "data_dir", cfg.DataDir)
	if err == nil {
		cfg.DataDir = dataDir
	}

	poolSize := section.Key("pool_size").MustInt(cfg.PoolSize)
	if poolSize <= 0 {
		logger.Warnf("pool_size %d is invalid, using default %d", poolSize, cfg.PoolSize)
	} else {
		cfg.PoolSize = poolSize
	}

	return cfg
}

func (cfg *Cfg) parseLogsCfg(section *ini.Section) *Cfg {
	if section == nil {
		return cfg
	}

	logInfos, err := valueAsString(section, "log_infos", cfg.LogInfos)
	if err == nil {
		cfg.LogInfos = logInfos
	}

	logLevel, err := valueAsString(section, "log_level", cfg.LogLevel)
	if err == nil {
		cfg.LogLevel = logLevel
		validLevels := []string{"debug", "info", "warn", "error", "fatal"}
		isValid := false
		for _, level := range validLevels {
			if cfg.LogLevel == level {
				isValid = true
				break
			}
		}
		if !isValid {
			logger.Debugf("invalid log level '%s', using 'info'", logLevel)
			cfg.LogLevel = "info"
		}
	}

	return cfg
}

func valueAsString(section *ini.Section, keyName string, defaultValue string) (value string, err error) {
	if section == nil {
		return defaultValue, nil
	}
	value = section.Key(keyName).MustString(defaultValue)
	if value == "" {
		value = defaultValue
	}
	return value, nil
}
