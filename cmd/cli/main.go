package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/de-tools/workflow-builder/pkg/client"
	"github.com/de-tools/workflow-builder/pkg/config"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/runtime/terminal"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Getenv("WORKFLOWS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		API:    client.NewClient(cfg.Client.URL, &http.Client{Timeout: cfg.Client.Timeout}),
		Roster: domain.Roster(cfg.Humans),
		Input:  os.Stdin,
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
