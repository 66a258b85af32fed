package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/jessevdk/go-flags"
	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Options struct {
	Endpoint string `short:"e" long:"endpoint" description:"streamable HTTP endpoint" default:"http://localhost:4000/mcp"`
	Command  string `short:"c" long:"command" description:"server binary to spawn over stdio instead of HTTP"`
	Timeout  int    `short:"t" long:"timeout" description:"overall timeout in seconds" default:"60"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.Timeout)*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "splitwise-mcp-test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport(opts), nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testCurrentUser(ctx, session)
	testGroups(ctx, session)
	testCategories(ctx, session)
	testUnknownTool(ctx, session)

	fmt.Println("\nAll tests completed")
}

func transport(opts Options) mcp.Transport {
	if opts.Command != "" {
		return &mcp.CommandTransport{Command: exec.Command(opts.Command, "--stdio")}
	}
	return &mcp.StreamableClientTransport{Endpoint: opts.Endpoint}
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: tools/list")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("tools/list failed: %v", err)
		return
	}

	for _, tool := range res.Tools {
		fmt.Printf("  %s\n", tool.Name)
	}
	fmt.Printf("tools/list passed (%d tools)\n", len(res.Tools))
}

func testCurrentUser(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: splitwise_get_current_user")
	call(ctx, session, "splitwise_get_current_user", map[string]any{})
}

func testGroups(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: splitwise_get_groups")
	call(ctx, session, "splitwise_get_groups", map[string]any{})
}

func testCategories(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: splitwise_get_categories")
	call(ctx, session, "splitwise_get_categories", map[string]any{})
}

func testUnknownTool(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: unknown tool")

	_, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "splitwise_does_not_exist"})
	if err == nil {
		log.Printf("unknown tool unexpectedly succeeded")
		return
	}
	fmt.Printf("unknown tool rejected as expected: %v\n", err)
}

func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return
	}

	printResult(result)
	fmt.Printf("%s passed\n", name)
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
