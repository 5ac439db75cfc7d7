// Package config loads exporter settings for the messenger from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/next-trace/scg-messenger/adapters/inmemory"
	"github.com/next-trace/scg-messenger/adapters/kafka"
	"github.com/next-trace/scg-messenger/adapters/nats"
	"github.com/next-trace/scg-messenger/adapters/rabbitmq"
	merr "github.com/next-trace/scg-messenger/contract/errors"
	cmsg "github.com/next-trace/scg-messenger/contract/message"
	"github.com/next-trace/scg-messenger/messenger"
)

// Supported exporter drivers.
const (
	DriverInMemory = "inmemory"
	DriverNATS     = "nats"
	DriverKafka    = "kafka"
	DriverRabbitMQ = "rabbitmq"
)

// Config selects and configures the exporter used by Forward subscriptions.
type Config struct {
	Driver        string          `yaml:"driver"`
	ExportTimeout time.Duration   `yaml:"export_timeout"`
	NATS          nats.Config     `yaml:"nats"`
	Kafka         kafka.Config    `yaml:"kafka"`
	RabbitMQ      rabbitmq.Config `yaml:"rabbitmq"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML config. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// an empty document decodes to io.EOF and means defaults
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", joinInvalid(err))
	}

	if c.Driver == "" {
		c.Driver = DriverInMemory
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks the driver name and the settings it needs.
func (c *Config) Validate() error {
	if c.ExportTimeout < 0 {
		return fmt.Errorf("config export_timeout %s: %w", c.ExportTimeout, merr.ErrInvalidConfig)
	}

	switch c.Driver {
	case DriverInMemory:
		return nil
	case DriverNATS:
		if c.NATS.URL == "" {
			return fmt.Errorf("config nats.url required: %w", merr.ErrInvalidConfig)
		}
	case DriverKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config kafka.brokers required: %w", merr.ErrInvalidConfig)
		}
	case DriverRabbitMQ:
		if c.RabbitMQ.URL == "" {
			return fmt.Errorf("config rabbitmq.url required: %w", merr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("config driver %q: %w", c.Driver, merr.ErrInvalidConfig)
	}

	return nil
}

// Exporter builds the configured exporter. The cleanup func releases broker
// connections and is never nil on success.
func (c *Config) Exporter() (cmsg.Exporter, func(), error) { //nolint:ireturn
	switch c.Driver {
	case DriverInMemory, "":
		return inmemory.New(), func() {}, nil
	case DriverNATS:
		return c.wrap(nats.NewWithNATS(c.NATS))
	case DriverKafka:
		return c.wrap(kafka.NewWithKgo(c.Kafka))
	case DriverRabbitMQ:
		return c.wrap(rabbitmq.NewWithAMQPConn(c.RabbitMQ))
	default:
		return nil, nil, fmt.Errorf("config driver %q: %w", c.Driver, merr.ErrInvalidConfig)
	}
}

func (c *Config) wrap(exp cmsg.Exporter, cleanup func(), err error) (cmsg.Exporter, func(), error) { //nolint:ireturn
	if err != nil {
		return nil, nil, fmt.Errorf("config %s exporter: %w", c.Driver, err)
	}

	return exp, cleanup, nil
}

// Options returns the Hub options implied by the config.
func (c *Config) Options() []messenger.Option {
	var opts []messenger.Option
	if c.ExportTimeout > 0 {
		opts = append(opts, messenger.WithExportTimeout(c.ExportTimeout))
	}

	return opts
}

func joinInvalid(err error) error {
	return fmt.Errorf("%w: %w", merr.ErrInvalidConfig, err)
}
