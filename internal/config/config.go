package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port"        validate:"required,gt=0,lt=65536"`
	Environment string `mapstructure:"environment" validate:"required"`
	LogLevel    string `mapstructure:"log_level"   validate:"required,oneof=debug info warn error"`
}

// Supported values for DatabaseConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig selects the task store engine and its connection settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory postgres sqlite"`
	URL    string `mapstructure:"url"    validate:"required_unless=Driver memory"`

	// Host, Port, User, Password and Name describe a postgres server when no
	// URL is given. Host is also reported at startup.
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// IsSQL reports whether the configured driver is backed by a SQL database.
func (c DatabaseConfig) IsSQL() bool {
	return c.Driver == DriverPostgres || c.Driver == DriverSQLite
}
