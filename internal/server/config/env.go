package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv reads the variables deployments keep in their .env
// file. Loading the .env file itself is left to the process supervisor.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("LISTEN_ADDR", &config.ListenAddr)
	str("DATABASE_URL", &config.DatabaseDSN)
	str("MONGO_URI", &config.MongoURI)
	str("MONGO_DB", &config.MongoDatabase)
	str("SECRET_KEY", &config.SecretKey)
	str("ALGORITHM", &config.SigningAlgorithm)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &config.OTLPEndpoint)

	if v, ok := lookup("ACCESS_TOKEN_EXPIRE_MINUTES"); ok && v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES %q", v)
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}

	if v, ok := lookup("EXPOSE_ERROR_DETAILS"); ok && v != "" {
		expose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid EXPOSE_ERROR_DETAILS %q", v)
		}
		config.ExposeErrorDetails = expose
	}

	if v, ok := lookup("OTEL_EXPORTER_OTLP_INSECURE"); ok && v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid OTEL_EXPORTER_OTLP_INSECURE %q", v)
		}
		config.OTLPInsecure = insecure
	}

	return nil
}
