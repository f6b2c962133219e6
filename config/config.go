// Package config loads the process settings the chaincode needs before it
// can talk to a peer. Registry parameters live on the ledger, not here.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the chaincode process settings.
type Config struct {
	// CCID and Address select external (chaincode-as-a-service) mode when both are set.
	CCID          string
	Address       string
	TLSDisabled   bool
	TLSKeyFile    string
	TLSCertFile   string
	TLSClientCA   string
	LoggingSpec   string
	EnvFileLoaded string
}

// ExternalServer reports whether the chaincode should run as its own gRPC server
// instead of dialing the peer.
func (c Config) ExternalServer() bool {
	return c.CCID != "" && c.Address != ""
}

// Load reads the environment, first merging envFile if it exists. Variables
// already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	var loaded string
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
			loaded = envFile
		}
	}

	tlsDisabled := true
	if v := os.Getenv("CHAINCODE_TLS_DISABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHAINCODE_TLS_DISABLED %q: %w", v, err)
		}
		tlsDisabled = b
	}

	cfg := Config{
		CCID:          os.Getenv("CHAINCODE_ID"),
		Address:       os.Getenv("CHAINCODE_SERVER_ADDRESS"),
		TLSDisabled:   tlsDisabled,
		TLSKeyFile:    os.Getenv("CHAINCODE_TLS_KEY_FILE"),
		TLSCertFile:   os.Getenv("CHAINCODE_TLS_CERT_FILE"),
		TLSClientCA:   os.Getenv("CHAINCODE_TLS_CLIENT_CA_FILE"),
		LoggingSpec:   getenv("CORE_CHAINCODE_LOGGING_LEVEL", "info"),
		EnvFileLoaded: loaded,
	}
	if cfg.ExternalServer() && !cfg.TLSDisabled && (cfg.TLSKeyFile == "" || cfg.TLSCertFile == "") {
		return Config{}, fmt.Errorf("TLS enabled but CHAINCODE_TLS_KEY_FILE or CHAINCODE_TLS_CERT_FILE is not set")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
