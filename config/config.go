package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ftpshell/logging"
	"ftpshell/protocols"
)

type Config struct {
	Connection Connection     `toml:"connection"`
	Local      Local          `toml:"local"`
	Log        logging.Config `toml:"log"`
	Metrics    Metrics        `toml:"metrics"`
	History    string         `toml:"history"`
}

type Connection struct {
	Protocol string `toml:"protocol"` // ftp, sftp
	Host     string `toml:"host"`
	Port     int    `toml:"port"` // 0 selects the protocol default
	User     string `toml:"user"`
	Password string `toml:"password"`
	Timeout  string `toml:"timeout"`
}

type Local struct {
	Dir string `toml:"dir"` // downloads land here, uploads are read from here
}

type Metrics struct {
	Listen string `toml:"listen"` // empty disables the endpoint
}

func Default() *Config {
	return &Config{
		Connection: Connection{
			Protocol: "ftp",
			User:     "anonymous",
			Timeout:  "30s",
		},
		Local: Local{Dir: "."},
		Log: logging.Config{
			Level:      "info",
			Format:     "console",
			OutputPath: "ftpshell.log",
		},
		History: "ftpshell_history.json",
	}
}

// LoadConfig reads path over the defaults. A missing file leaves the
// defaults in place.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := protocols.New(c.Connection.Protocol, 0); err != nil {
		return err
	}
	if c.Connection.Host == "" {
		return errors.New("connection.host is required")
	}
	if c.Connection.Port < 0 || c.Connection.Port > 65535 {
		return fmt.Errorf("connection.port out of range: %d", c.Connection.Port)
	}
	if _, err := c.Connection.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// Address is host:port with the protocol's default port filled in.
func (c Connection) Address() string {
	port := c.Port
	if port == 0 {
		port = protocols.DefaultPort(c.Protocol)
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

func (c Connection) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("connection.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("connection.timeout must be positive: %s", c.Timeout)
	}
	return d, nil
}
