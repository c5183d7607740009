package client

import (
	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/crypto/sign"
)

// Config contains the client's configuration needed to talk to a
// veriAI coordinator: the coordinator's base URL, the id and type the
// agent registers under, and optionally the path to the agent's
// signing key and the key parsed from that file.
type Config struct {
	*application.CommonConfig `yaml:",inline"`

	Address   string `toml:"address" yaml:"address"`
	AgentID   string `toml:"agent_id" yaml:"agent_id"`
	AgentType string `toml:"agent_type,omitempty" yaml:"agent_type,omitempty"`

	SignKeyPath string `toml:"sign_key_path,omitempty" yaml:"sign_key_path,omitempty"`

	SigningKey sign.PrivateKey `toml:"-" yaml:"-"`
}

var _ application.AppConfig = (*Config)(nil)

// NewConfig initializes a new client configuration at the
// given file path, with the given config encoding,
// coordinator address, agent id and signing key path.
func NewConfig(file, encoding, serverAddr, agentID, signKeyPath string) *Config {
	var conf = Config{
		CommonConfig: application.NewCommonConfig(file, encoding, nil),
		Address:      serverAddr,
		AgentID:      agentID,
		SignKeyPath:  signKeyPath,
	}

	return &conf
}

// Load initializes a client's configuration from the given file
// using the given encoding.
// It reads the signing key file, if one is configured.
func (conf *Config) Load(file, encoding string) error {
	conf.CommonConfig = application.NewCommonConfig(file, encoding, nil)
	if err := conf.GetLoader().Decode(conf); err != nil {
		return err
	}

	// load signing key
	if conf.SignKeyPath != "" {
		signKey, err := application.LoadSigningKey(conf.SignKeyPath, file)
		if err != nil {
			return err
		}
		conf.SigningKey = signKey
	}

	return nil
}

// Save writes a client's configuration.
func (conf *Config) Save() error {
	return conf.GetLoader().Encode(conf)
}

// GetPath returns the client's configuration file path.
func (conf *Config) GetPath() string {
	return conf.Path
}
