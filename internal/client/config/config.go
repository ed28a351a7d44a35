package config

import (
	"time"
)

// Config holds runtime settings for the keygate CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the key-data gRPC endpoint.
//   - Domain: appended to the user name to form the remote identity.
//   - DataDir: directory for the metadata database and per-account stores.
//   - AccountID / UserName: the signed-in account; empty AccountID means none.
//   - AccessToken: bearer JWT sent with every RPC.
//   - HashSalt: salt of the passphrase hash; changing it invalidates stored keys.
//   - ResetPolicy: "abort" or "continue", see keymanager.ParseResetPolicy.
//   - RequestTimeout: upper bound for the hashing, storage and server calls
//     of a single submit or reset; time spent at the confirmation prompt
//     does not count.
//   - OnlineCheckInterval: how often the client checks server reachability.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerEndpointAddr  string
	Domain              string
	DataDir             string
	AccountID           string
	UserName            string
	AccessToken         string
	HashSalt            string
	ResetPolicy         string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Domain = "localhost"
	c.DataDir = ".keygate"
	c.AccountID = ""
	c.UserName = ""
	c.AccessToken = ""
	c.HashSalt = "keygate/encryption-key/v1"
	c.ResetPolicy = "abort"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if -c/-config is given) and command-line flags. Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
