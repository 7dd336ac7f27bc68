// Command token issues a bearer token for an owner, for local development
// and smoke tests against the API. It reads JWT_SECRET and TOKEN_TTL the same
// way the server does.
//
//	go run ./cmd/token -owner 6f1c...   # prints the token
//	go run ./cmd/token                  # new random owner, printed to stderr
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pkordes/itinerary/internal/auth"
)

type tokenConfig struct {
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"72h"`
}

func main() {
	ownerFlag := flag.String("owner", "", "owner UUID to issue the token for (default: random)")
	flag.Parse()

	if err := run(*ownerFlag); err != nil {
		fmt.Fprintln(os.Stderr, "token:", err)
		os.Exit(1)
	}
}

func run(ownerArg string) error {
	_ = godotenv.Load()
	cfg, err := env.ParseAs[tokenConfig]()
	if err != nil {
		return err
	}

	owner := uuid.New()
	if ownerArg != "" {
		if owner, err = uuid.Parse(ownerArg); err != nil {
			return fmt.Errorf("invalid -owner: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "owner:", owner)
	}

	token, err := auth.New(cfg.JWTSecret, cfg.TokenTTL).Issue(owner)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
