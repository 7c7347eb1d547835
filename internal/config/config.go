package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"` // external URL used in activation links

	VerifyTokenTTLSeconds  int `yaml:"verify_token_ttl"`  // seconds, email verification tokens
	SessionTokenTTLSeconds int `yaml:"session_token_ttl"` // seconds, login session tokens

	MaxImageSizeBytes     int64    `yaml:"max_image_size"`
	AllowedImageMimeTypes []string `yaml:"allowed_image_mime_types"`
	ImageDir              string   `yaml:"image_dir"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
	Smtp   Smtp   `yaml:"smtp"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Smtp struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Sender     string `yaml:"sender"`
	SenderName string `yaml:"sender_name"`
	SSL        bool   `yaml:"ssl"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) VerifyTokenTTL() time.Duration {
	return time.Duration(c.Public.VerifyTokenTTLSeconds) * time.Second
}

func (c *Config) SessionTokenTTL() time.Duration {
	return time.Duration(c.Public.SessionTokenTTLSeconds) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.mustValidate()
	return cfg
}

func (c *Config) mustValidate() {
	required := map[string]bool{
		"addr":              c.Public.Addr != "",
		"base_url":          c.Public.BaseURL != "",
		"verify_token_ttl":  c.Public.VerifyTokenTTLSeconds > 0,
		"session_token_ttl": c.Public.SessionTokenTTLSeconds > 0,
		"max_image_size":    c.Public.MaxImageSizeBytes > 0,
		"jwt_key":           c.Private.JwtKey != "",
	}
	for field, ok := range required {
		if !ok {
			panic(fmt.Sprintf("config: required field %q is missing or invalid", field))
		}
	}
}
