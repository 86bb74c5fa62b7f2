package devops

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"rakshak.com/rakshak/attendance/core"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConnections int    `yaml:"maxConnections"`
	LogLevel       string `yaml:"logLevel"`
}

type AuthConfig struct {
	// JwtSecret is base64-encoded, matching the value provisioned on
	// the devices at enrolment time.
	JwtSecret       string `yaml:"jwtSecret"`
	TokenTTLSeconds int64  `yaml:"tokenTtlSeconds"`
}

type ReportConfig struct {
	// Roles are the category names reported as buckets, e.g. Driver and
	// EMT. Employees outside these categories never appear in reports.
	Roles              []string `yaml:"roles"`
	CategoryTTLSeconds int64    `yaml:"categoryTtlSeconds"`
}

type UploadConfig struct {
	Dir      string `yaml:"dir"`
	S3Bucket string `yaml:"s3Bucket"`
}

type Configuration struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Auth       AuthConfig     `yaml:"auth"`
	Attendance core.Policy    `yaml:"attendance"`
	Report     ReportConfig   `yaml:"report"`
	Upload     UploadConfig   `yaml:"upload"`
}

func defaultConfiguration() *Configuration {
	return &Configuration{
		Server: ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{
			MaxConnections: 10,
			LogLevel:       "warn",
		},
		Auth: AuthConfig{TokenTTLSeconds: 86400},
		Attendance: core.Policy{
			CrossAmbulanceAutoClose: true,
			SameCategoryAutoClose:   true,
		},
		Report: ReportConfig{
			Roles:              []string{"Driver", "EMT"},
			CategoryTTLSeconds: 300,
		},
		Upload: UploadConfig{Dir: "uploads"},
	}
}

// Load reads the YAML configuration file and applies environment
// overrides. Secrets come from the environment in deployed
// environments; the file carries everything else.
func Load(path string) (*Configuration, error) {
	cfg := defaultConfiguration()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read configuration: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal configuration: %w", err)
		}
	}

	if dsn := os.Getenv("RAKSHAK_DB_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if secret := os.Getenv("RAKSHAK_JWT_SECRET"); secret != "" {
		cfg.Auth.JwtSecret = secret
	}
	if bucket := os.Getenv("RAKSHAK_S3_BUCKET"); bucket != "" {
		cfg.Upload.S3Bucket = bucket
	}
	if addr := os.Getenv("RAKSHAK_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if maxConn := os.Getenv("RAKSHAK_DB_MAX_CONNECTIONS"); maxConn != "" {
		n, err := strconv.Atoi(maxConn)
		if err != nil {
			return nil, fmt.Errorf("parse RAKSHAK_DB_MAX_CONNECTIONS: %w", err)
		}
		cfg.Database.MaxConnections = n
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is not configured")
	}
	if cfg.Auth.JwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}

	return cfg, nil
}
