package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gremath/internal/flagx"
	"github.com/dmitrijs2005/gremath/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. It uses
// timex.Duration for lifetimes so files may say "30m" or give nanoseconds.
// Only fields present in the file override the current values.
type FileConfig struct {
	ListenAddr                   string         `json:"listen_addr" yaml:"listen_addr"`
	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	MongoURI                     string         `json:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase                string         `json:"mongo_database" yaml:"mongo_database"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	SigningAlgorithm             string         `json:"signing_algorithm" yaml:"signing_algorithm"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	DefaultTokenValidityDuration timex.Duration `json:"default_token_validity_duration" yaml:"default_token_validity_duration"`
	BcryptCost                   int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	PBKDF2Rounds                 int            `json:"pbkdf2_rounds" yaml:"pbkdf2_rounds"`
	S3RootUser                   string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	ExposeErrorDetails           *bool          `json:"expose_error_details" yaml:"expose_error_details"`
	Debug                        *bool          `json:"debug" yaml:"debug"`
}

// parseFile loads the file named by -c/-config, if any. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SigningAlgorithm, c.SigningAlgorithm)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.DefaultTokenValidityDuration.Duration > 0 {
		config.DefaultTokenValidityDuration = c.DefaultTokenValidityDuration.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.PBKDF2Rounds > 0 {
		config.PBKDF2Rounds = c.PBKDF2Rounds
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.ExposeErrorDetails != nil {
		config.ExposeErrorDetails = *c.ExposeErrorDetails
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
