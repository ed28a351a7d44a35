package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/keygate/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   address and port of the key-data server
//	-n string   identity domain
//	-d string   data directory
//	-i string   account id
//	-u string   user name
//	-t string   access token
//	-s string   passphrase hash salt
//	-p string   reset policy (abort|continue)
//	-r int      request timeout (in seconds)
//	-o int      online check interval (in seconds)
//	-l string   log level (debug|info|warn|error)
//
// Args are filtered with flagx.FilterArgs so the -c/-config flag and
// anything unknown are left alone.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-n", "-d", "-i", "-u", "-t", "-s", "-p", "-r", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Domain, "n", cfg.Domain, "identity domain")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.AccountID, "i", cfg.AccountID, "account id")
	fs.StringVar(&cfg.UserName, "u", cfg.UserName, "user name")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.HashSalt, "s", cfg.HashSalt, "passphrase hash salt")
	fs.StringVar(&cfg.ResetPolicy, "p", cfg.ResetPolicy, "reset policy on server failure (abort|continue)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	requestTimeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("o", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
