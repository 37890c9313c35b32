package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samvad-hq/samvad-gateway/internal/config"
	"github.com/samvad-hq/samvad-gateway/internal/domain"
	"github.com/samvad-hq/samvad-gateway/internal/logger"
	"github.com/samvad-hq/samvad-gateway/internal/session"
	"github.com/spf13/pflag"
)

const usage = `usage: sessionctl [flags] login --token TOKEN
       sessionctl [flags] show
       sessionctl [flags] invalidate`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("sessionctl", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	token := fs.String("token", "", "bearer token stored by login")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(usage)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if _, err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	store, err := session.NewStore(cfg.SessionStoreType, cfg.SessionBoltPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	return execute(context.Background(), session.NewManager(store, cfg.SessionKey), fs.Arg(0), *token, out)
}

func execute(ctx context.Context, m *session.Manager, cmd, token string, out io.Writer) error {
	switch cmd {
	case "login":
		if token == "" {
			return errors.New("login requires --token")
		}
		if err := m.Save(ctx, domain.NewSession(token)); err != nil {
			return err
		}
		logger.InfoObj("session stored", "session_key", m.Key())
		return nil
	case "show":
		s, err := m.Current(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "invalidate":
		if err := m.Invalidate(ctx); err != nil {
			return err
		}
		logger.InfoObj("session invalidated", "session_key", m.Key())
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}
