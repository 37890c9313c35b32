package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samvad-hq/samvad-gateway/internal/app"
	"github.com/samvad-hq/samvad-gateway/internal/config"
	"github.com/samvad-hq/samvad-gateway/internal/logger"
	"github.com/spf13/pflag"
)

const usage = `usage: gateway [flags] get <url>
       gateway [flags] post <url> [--body JSON | --body-file PATH]`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("gateway", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	body := fs.String("body", "", "JSON request body for post")
	bodyFile := fs.String("body-file", "", "file holding the JSON request body for post")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return errors.New(usage)
	}
	method := strings.ToUpper(rest[0])
	url := rest[1]
	if method != "GET" && method != "POST" {
		return fmt.Errorf("unknown command %q\n%s", rest[0], usage)
	}

	reqBody, err := readBody(*body, *bodyFile)
	if err != nil {
		return err
	}
	if method == "GET" && reqBody != nil {
		return errors.New("--body and --body-file apply to post only")
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("gateway starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, err := app.NewGateway(ctx, cfg, log, nil)
	if err != nil {
		logger.ErrorObj("failed to initialize gateway", "error", err)
		return err
	}
	defer gw.Close()

	var payload any
	if method == "GET" {
		payload, err = gw.Service().MakeGetRequest(ctx, url)
	} else {
		payload, err = gw.Service().MakePostRequest(ctx, url, reqBody)
	}
	if err != nil {
		// Only the consolidated message is printed.
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func readBody(inline, path string) (any, error) {
	if inline != "" && path != "" {
		return nil, errors.New("use either --body or --body-file, not both")
	}

	var raw []byte
	switch {
	case inline != "":
		raw = []byte(inline)
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		raw = data
	default:
		return nil, nil
	}

	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}
