package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/keygate/internal/flagx"
	"github.com/dmitrijs2005/keygate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Fields left
// out of the file keep their current value.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	Domain              string         `json:"domain"`
	DataDir             string         `json:"data_dir"`
	AccountID           string         `json:"account_id"`
	UserName            string         `json:"user_name"`
	AccessToken         string         `json:"access_token"`
	HashSalt            string         `json:"hash_salt"`
	ResetPolicy         string         `json:"reset_policy"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	overlay(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	overlay(&cfg.Domain, jc.Domain)
	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.AccountID, jc.AccountID)
	overlay(&cfg.UserName, jc.UserName)
	overlay(&cfg.AccessToken, jc.AccessToken)
	overlay(&cfg.HashSalt, jc.HashSalt)
	overlay(&cfg.ResetPolicy, jc.ResetPolicy)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
