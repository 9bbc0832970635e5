// Package config loads the node's runtime configuration (listen address,
// data/config directories, logging level) from node.yaml, with home-dir
// rooted directory bootstrap for any path left unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// NodeConfig is the node binary's runtime configuration.
type NodeConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	DataDir     string `yaml:"data_dir"`
	ConfigDir   string `yaml:"config_dir"`
	AuditDBPath string `yaml:"audit_db_path"`
	LogLevel    string `yaml:"log_level"`
}

const (
	defaultListenAddr = "127.0.0.1:26658"
	hiddenFolderName  = ".dvote-voting"
)

// DefaultDataFolder returns ~/.dvote-voting/data, creating it with 0700
// permissions if absent.
func DefaultDataFolder() (string, error) {
	return homeSubdir("data")
}

// DefaultConfigFolder returns ~/.dvote-voting/config, creating it with
// 0700 permissions if absent.
func DefaultConfigFolder() (string, error) {
	return homeSubdir("config")
}

func homeSubdir(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	dir := filepath.Join(homeDir, hiddenFolderName, name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("config: creating %s: %w", dir, err)
	}
	return dir, nil
}

// Default returns a NodeConfig populated with the default on-disk layout.
func Default() (*NodeConfig, error) {
	dataDir, err := DefaultDataFolder()
	if err != nil {
		return nil, err
	}
	configDir, err := DefaultConfigFolder()
	if err != nil {
		return nil, err
	}
	return &NodeConfig{
		ListenAddr:  defaultListenAddr,
		DataDir:     dataDir,
		ConfigDir:   configDir,
		AuditDBPath: filepath.Join(dataDir, "audit.db"),
		LogLevel:    "warn",
	}, nil
}

// Load reads a NodeConfig from a YAML file at path, filling in defaults
// for any field left empty. A missing file is not an error: Load falls
// back to Default().
func Load(path string) (*NodeConfig, error) {
	def, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := *def
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = def.ConfigDir
	}
	if cfg.AuditDBPath == "" {
		cfg.AuditDBPath = filepath.Join(cfg.DataDir, "audit.db")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("config: creating data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("config: creating config dir: %w", err)
	}

	return &cfg, nil
}

// AppStatePath returns the canonical state file path within DataDir.
func (c *NodeConfig) AppStatePath() string {
	return filepath.Join(c.DataDir, "app_state.json")
}

// PublicKeyPath returns the Paillier public key file path within ConfigDir.
func (c *NodeConfig) PublicKeyPath() string {
	return filepath.Join(c.ConfigDir, "paillier_pubkey.json")
}

// SharesPath returns the Shamir key-shares file path within ConfigDir.
// Operators are expected to move this file to share-holders out of band
// and remove it from the node that generated it.
func (c *NodeConfig) SharesPath() string {
	return filepath.Join(c.ConfigDir, "sss_shares.json")
}
