package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"

	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()

	in := bufio.NewReader(os.Stdin)
	key := credential(in, os.Stderr, "SPLITWISE_CONSUMER_KEY", "Consumer Key")
	secret := credential(in, os.Stderr, "SPLITWISE_CONSUMER_SECRET", "Consumer Secret")
	if key == "" || secret == "" {
		logger.Error("consumer key and secret are required")
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Make sure %s is registered as the callback URL of your Splitwise app.\n", callbackURL)

	token, err := runFlow(context.Background(), oauthConfig(key, secret), uuid.NewString(), browser.OpenURL, logger)
	if err != nil {
		logger.Error("authorization failed", "err", err)
		os.Exit(1)
	}

	fmt.Println("Access token obtained. Add it to your environment or .env file:")
	fmt.Println()
	fmt.Printf("SPLITWISE_ACCESS_TOKEN=%s\n", token.AccessToken)
	if token.RefreshToken != "" {
		fmt.Printf("SPLITWISE_REFRESH_TOKEN=%s\n", token.RefreshToken)
	}
}

// credential returns env, or prompts for it on out and reads a line from in.
func credential(in *bufio.Reader, out io.Writer, env, label string) string {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}

	fmt.Fprintf(out, "Enter your Splitwise %s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
