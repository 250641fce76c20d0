package models

import (
	"fmt"
	"net/url"
)

// SourceDriver names the backend a table is read from
type SourceDriver string

const (
	DriverSQLite   SourceDriver = "sqlite"
	DriverPostgres SourceDriver = "postgres"
)

// SourceConfig represents a data source configuration
type SourceConfig struct {
	Driver SourceDriver `yaml:"driver" mapstructure:"driver"`

	// SQLite
	Path string `yaml:"path" mapstructure:"path"`

	// PostgreSQL. DSN wins over the individual fields when set.
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Database string `yaml:"database" mapstructure:"database"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	SSLMode  string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
}

// ConnString returns the PostgreSQL connection string
func (c SourceConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, port),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Label returns a short human readable name for the source
func (c SourceConfig) Label() string {
	switch c.Driver {
	case DriverPostgres:
		if c.DSN != "" {
			if u, err := url.Parse(c.DSN); err == nil {
				return "pg:" + u.Host + u.Path
			}
			return "postgres"
		}
		return fmt.Sprintf("pg:%s/%s", c.Host, c.Database)
	default:
		return "sqlite:" + c.Path
	}
}
