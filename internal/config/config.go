package config

type Config interface {
	EnvConfig
	SessionConfig
	SecurityConfig
	NotifyConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetDatabaseURL() string
}

type mainConfig struct {
	EnvVars
	Session
	Security
	Notify
}

func New() Config {
	return mainConfig{}
}
