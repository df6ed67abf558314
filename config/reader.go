package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	DBName   string `yaml:"name"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type ConfigSchema struct {
	Databases struct {
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
	} `yaml:"databases"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
	Backend struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	Session struct {
		CookieName string `yaml:"cookie_name"`
		TTLHours   int    `yaml:"ttl_hours"`
	} `yaml:"session"`
	Presence struct {
		// StaleAfterSeconds > 0 включает janitor, который переводит
		// давно молчащих пользователей в offline. 0 - выключено.
		StaleAfterSeconds    int `yaml:"stale_after_seconds"`
		SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	} `yaml:"presence"`
	Typing struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"typing"`
	Logs struct {
		Level string `yaml:"level"`
	} `yaml:"logs"`
}

var AppConfig *ConfigSchema

func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	conf := &ConfigSchema{}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return err
	}
	applyDefaults(conf)
	AppConfig = conf
	return nil
}

func applyDefaults(conf *ConfigSchema) {
	if conf.Session.CookieName == "" {
		conf.Session.CookieName = "session_id"
	}
	if conf.Session.TTLHours == 0 {
		conf.Session.TTLHours = 24
	}
	if conf.Typing.TTLSeconds == 0 {
		conf.Typing.TTLSeconds = 5
	}
	if conf.Presence.SweepIntervalSeconds == 0 {
		conf.Presence.SweepIntervalSeconds = 30
	}
	if conf.RabbitMQ.Exchange == "" {
		conf.RabbitMQ.Exchange = "message_events"
	}
}
