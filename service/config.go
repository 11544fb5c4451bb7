package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/scy/cred/secret"
	"gopkg.in/yaml.v3"
)

// Config defines service, job store and report settings.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	MCPServer MCPServerConfig `yaml:"mcpServer"`
	Jobs      JobsConfig      `yaml:"jobs"`
	Report    ReportConfig    `yaml:"report"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	Addr           string     `yaml:"addr"`
	MaxUploadBytes int64      `yaml:"maxUploadBytes"`
	CORS           CORSConfig `yaml:"cors"`
}

// CORSConfig defines the cross-origin policy.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins"`
	AllowCredentials bool     `yaml:"allowCredentials"`
}

// MCPServerConfig defines MCP server settings.
type MCPServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`
}

// JobsConfig defines the job store.
type JobsConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	Secret     string `yaml:"secret,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds"`
}

// ReportConfig defines report rendering and input cleaning.
type ReportConfig struct {
	Sheet        string   `yaml:"sheet"`
	FileName     string   `yaml:"fileName"`
	Placeholders []string `yaml:"placeholders"`
	Namespace    string   `yaml:"namespace"`
}

// LoadConfig reads a yaml config, expanding ~ paths and secret references.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Jobs.DSN != "" {
		if cfg.Jobs.DSN, err = expandStoreDSN(cfg.Jobs.DSN); err != nil {
			return nil, err
		}
	}
	if cfg.Jobs.Secret != "" {
		if cfg.Jobs.DSN, err = ExpandDSNWithSecret(context.Background(), cfg.Jobs.DSN, cfg.Jobs.Secret); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	return filepath.Join(home, trimmed[2:]), nil
}

func expandStoreDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "file:~") {
		expanded, err := expandUserPath(strings.TrimPrefix(dsn, "file:"))
		if err != nil {
			return "", err
		}
		return "file:" + expanded, nil
	}
	return expandUserPath(dsn)
}

// ExpandDSNWithSecret loads a secret and expands placeholders in the DSN.
func ExpandDSNWithSecret(ctx context.Context, dsn, secretRef string) (string, error) {
	secretRef = strings.TrimSpace(secretRef)
	if secretRef == "" {
		return dsn, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("secret %q provided but dsn is empty", secretRef)
	}
	svc := secret.New()
	sec, err := svc.Lookup(ctx, secret.Resource(secretRef))
	if err != nil {
		return "", err
	}
	return sec.Expand(dsn), nil
}
