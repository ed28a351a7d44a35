// Command token issues an access token for one identity, signed with the
// server's secret. The server's -c/-config, -s and -t flags are honoured.
//
//	token -identity alice@example.com -s secretKey
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/keygate/internal/flagx"
	"github.com/dmitrijs2005/keygate/internal/server/auth"
	"github.com/dmitrijs2005/keygate/internal/server/config"
	"github.com/dmitrijs2005/keygate/internal/server/services"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var identity string
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&identity, "identity", "", "identity to issue the token for")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-identity"})); err != nil {
		return err
	}

	if err := services.ValidateIdentity(identity); err != nil {
		return err
	}

	tok, err := auth.GenerateToken(identity, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	_, err = fmt.Fprintln(out, tok)
	return err
}
