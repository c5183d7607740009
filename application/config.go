package application

import (
	"fmt"
	"os"

	"github.com/veriai-sys/veriai-go/crypto/sign"
	"github.com/veriai-sys/veriai-go/utils"
)

// AppConfig provides an abstraction of the
// underlying encoding format for the configs.
type AppConfig interface {
	Load(file, encoding string) error
	Save() error
	GetPath() string
}

// CommonConfig is the generic type used to specify the configuration of
// any kind of veriAI application-level executable (e.g. coordinator
// server, client etc.). It contains some common configuration
// values including the file path, logger configuration, and config
// loader.
type CommonConfig struct {
	Path     string        `toml:"-" yaml:"-"`
	Logger   *LoggerConfig `toml:"logger" yaml:"logger"`
	Encoding string        `toml:"-" yaml:"-"`
	loader   ConfigLoader
}

// NewCommonConfig initializes an application's config file path,
// its loader for the given encoding, and the logger configuration.
// Note: This constructor must be called in each Load() method
// implementation of an AppConfig.
func NewCommonConfig(file, encoding string, logger *LoggerConfig) *CommonConfig {
	return &CommonConfig{
		Path:     file,
		Logger:   logger,
		Encoding: encoding,
		loader:   newConfigLoader(encoding),
	}
}

// GetLoader returns the config's loader.
func (conf *CommonConfig) GetLoader() ConfigLoader {
	return conf.loader
}

// LoadSigningKey loads an agent's private signing key at the given path
// specified in the given config file.
// If there is any reading error or the key is malformed,
// LoadSigningKey() returns an error with a nil key.
func LoadSigningKey(path, file string) (sign.PrivateKey, error) {
	keyPath := utils.ResolvePath(path, file)
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("Cannot read signing key: %v", err)
	}
	if len(key) != sign.PrivateKeySize {
		return nil, fmt.Errorf("Signing key must be %d bytes (got %d)",
			sign.PrivateKeySize, len(key))
	}
	return key, nil
}
