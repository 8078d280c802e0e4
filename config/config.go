package config

// Config contains all application settings
type Config struct {
	BasePath  string `mapstructure:"AYARS_BASE_PATH" yaml:"base_path"`
	Extension string `mapstructure:"AYARS_EXTENSION" yaml:"extension"`
	Workers   int    `mapstructure:"AYARS_WORKERS" yaml:"workers"`
	LogLevel  string `mapstructure:"AYARS_LOG_LEVEL" yaml:"log_level"`
	Output    string `mapstructure:"AYARS_OUTPUT" yaml:"output"`

	NATSURL     string `mapstructure:"AYARS_NATS_URL" yaml:"nats_url"`
	NATSSubject string `mapstructure:"AYARS_NATS_SUBJECT" yaml:"nats_subject"`

	BindPort int    `mapstructure:"AYARS_PORT" yaml:"port"`
	BindHost string `mapstructure:"AYARS_HOST" yaml:"host"`

	// Version
	BuildVersion string `yaml:"-"`
	BuildHash    string `yaml:"-"`
	BuildTime    string `yaml:"-"`
}
