package server

import (
	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/protocol/auditlog"
	"github.com/veriai-sys/veriai-go/utils"
)

// A Config contains configuration values
// which are read at initialization time from
// a TOML or YAML format configuration file.
type Config struct {
	*application.CommonConfig `yaml:",inline"`
	// Addresses contains the server's connections configuration.
	Addresses []*application.ServerAddress `toml:"addresses" yaml:"addresses"`
	// Policies contains the coordinator's policies configuration.
	Policies *Policies `toml:"policies" yaml:"policies"`
	// Audit selects where completed sessions are recorded.
	Audit *auditlog.Config `toml:"audit" yaml:"audit"`
	// CORS lists the browser origins allowed to call the API.
	CORS *CORSConfig `toml:"cors" yaml:"cors"`
}

var _ application.AppConfig = (*Config)(nil)

// NewConfig initializes a new server configuration at the given file
// path, with the given config encoding, server addresses, logger
// configuration, coordinator policies and audit log configuration.
func NewConfig(file, encoding string, addrs []*application.ServerAddress,
	logConfig *application.LoggerConfig, policies *Policies,
	audit *auditlog.Config) *Config {
	var conf = Config{
		CommonConfig: application.NewCommonConfig(file, encoding, logConfig),
		Addresses:    addrs,
		Policies:     policies,
		Audit:        audit,
		CORS:         &CORSConfig{AllowedOrigins: DefaultAllowedOrigins},
	}

	return &conf
}

// Load initializes a server's configuration from the given file
// using the given encoding.
// It updates the paths of the TLS certificate files of each address,
// of the log file and of the audit log to absolute paths, and fills
// in the defaults of omitted sections.
func (conf *Config) Load(file, encoding string) error {
	conf.CommonConfig = application.NewCommonConfig(file, encoding, nil)
	if err := conf.GetLoader().Decode(conf); err != nil {
		return err
	}

	if conf.Logger == nil {
		conf.Logger = &application.LoggerConfig{Environment: "production"}
	}
	conf.Logger.Path = utils.ResolvePath(conf.Logger.Path, file)
	for _, addr := range conf.Addresses {
		addr.TLSCertPath = utils.ResolvePath(addr.TLSCertPath, file)
		addr.TLSKeyPath = utils.ResolvePath(addr.TLSKeyPath, file)
	}
	if conf.Policies == nil {
		conf.Policies = new(Policies)
	}
	if conf.Audit == nil {
		conf.Audit = &auditlog.Config{Backend: auditlog.BackendLevelDB, Path: "audit.db"}
	}
	if conf.Audit.Backend != auditlog.BackendPostgres {
		conf.Audit.Path = utils.ResolvePath(conf.Audit.Path, file)
	}
	if conf.CORS == nil {
		conf.CORS = &CORSConfig{AllowedOrigins: DefaultAllowedOrigins}
	}
	return nil
}

// Save writes a server's configuration.
func (conf *Config) Save() error {
	return conf.GetLoader().Encode(conf)
}

// GetPath returns the server's configuration file path.
func (conf *Config) GetPath() string {
	return conf.Path
}
