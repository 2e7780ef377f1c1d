package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Default values used when the configuration file omits a field.
const (
	DefaultHost       = "192.168.178.83"
	DefaultPort       = 8888
	DefaultColor      = "#FFFFFFFF"
	DefaultLogLevel   = "info"
	DefaultTopic      = "lumibear"
	DefaultArtNetAddr = ":6454"
	DefaultArtNetNet  = "192.168.6.0/24"
)

var (
	ErrQos      = errors.New("mqtt qos must be 0, 1 or 2")
	ErrChannel  = errors.New("art-net channel must be within 1..509")
	ErrUniverse = errors.New("art-net universe must be within 0..32767")
)

// Config структура конфигурации.
type Config struct {
	Logger   LogConf      // Logger - конфигурация регистратора.
	Device   DeviceConf   // Device - адрес лампы.
	Colors   ColorsConf   // Colors - сохранённые цвета панели.
	MQTT     MQTTConf     // MQTT - конфигурация MQTT клиента.
	ArtNet   ArtNetConf   // ArtNet - конфигурация приёмника Art-Net.
	Emulator EmulatorConf // Emulator - конфигурация эмулятора лампы.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level  string `toml:"log-level"` // Level - уровень логирования.
	Format string `toml:"format"`    // Format - text или json.
}

// DeviceConf is the destination every command is sent to.
type DeviceConf struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ColorsConf holds stored colors in #RRGGBBAA form.
type ColorsConf struct {
	Primary string `toml:"primary"`
	Rotate1 string `toml:"rotate1"`
	Rotate2 string `toml:"rotate2"`
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	Enabled     bool   `toml:"enabled"`
	ClientID    string `toml:"clientID"`     // ClientID - имя клиента.
	Host        string `toml:"server"`       // Host - адрес MQTT сервера.
	Port        string `toml:"port"`         // Port - порт MQTT сервера.
	User        string `toml:"user"`         // User - логин для подключения к MQTT серверу.
	Password    string `toml:"password"`     // Password - пароль для подключения к MQTT серверу.
	Qos         byte   `toml:"qos"`          // Qos - качество обслуживания.
	TopicPrefix string `toml:"topic-prefix"` // TopicPrefix - корень топиков команд.
}

// ArtNetConf describes which DMX channels drive the lamp.
type ArtNetConf struct {
	Enabled  bool   `toml:"enabled"`
	Listen   string `toml:"listen"`  // "auto" - интерфейс из сети Network.
	Network  string `toml:"network"` // Network - CIDR сети Art-Net.
	Universe int    `toml:"universe"`
	Channel  int    `toml:"channel"` // first of R, G, B, dimmer; 1-based.
}

// EmulatorConf структура конфигурации.
type EmulatorConf struct {
	Listen string `toml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Logger: LogConf{Level: DefaultLogLevel, Format: "text"},
		Device: DeviceConf{Host: DefaultHost, Port: DefaultPort},
		Colors: ColorsConf{
			Primary: DefaultColor,
			Rotate1: DefaultColor,
			Rotate2: DefaultColor,
		},
		MQTT: MQTTConf{
			ClientID:    "lumibear",
			Host:        "localhost",
			Port:        "1883",
			TopicPrefix: DefaultTopic,
		},
		ArtNet:   ArtNetConf{Listen: DefaultArtNetAddr, Network: DefaultArtNetNet, Channel: 1},
		Emulator: EmulatorConf{Listen: fmt.Sprintf(":%d", DefaultPort)},
	}
}

// NewConfig конструктор. Пустой путь - только значения по умолчанию.
func NewConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	return &cfg, cfg.Validate()
}

// Validate checks the bridge settings. Device host and port are only
// checked when a command is sent.
func (c *Config) Validate() error {
	if c.MQTT.Qos > 2 {
		return fmt.Errorf("%w: %d", ErrQos, c.MQTT.Qos)
	}
	if c.ArtNet.Channel < 1 || c.ArtNet.Channel > 509 {
		return fmt.Errorf("%w: %d", ErrChannel, c.ArtNet.Channel)
	}
	if c.ArtNet.Universe < 0 || c.ArtNet.Universe > 32767 {
		return fmt.Errorf("%w: %d", ErrUniverse, c.ArtNet.Universe)
	}
	return nil
}
