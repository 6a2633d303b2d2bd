package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AdnanSadiqsb/botnflow-console/internal/api"
	"github.com/AdnanSadiqsb/botnflow-console/internal/channel"
	"github.com/AdnanSadiqsb/botnflow-console/internal/config"
	"github.com/AdnanSadiqsb/botnflow-console/internal/contact"
	"github.com/AdnanSadiqsb/botnflow-console/internal/export"
	"github.com/AdnanSadiqsb/botnflow-console/internal/logger"
	"github.com/AdnanSadiqsb/botnflow-console/internal/tui"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "path to config file")
	apiURL := flag.String("api-url", "", "backend base URL (overrides config)")
	token := flag.String("token", "", "API token (overrides config)")
	timeout := flag.Int("timeout", 0, "request timeout in seconds (overrides config)")
	exportPath := flag.String("export", "", "write all contacts to a CSV file and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("botnflow-console " + version)
		return
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal(err)
	}

	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *token != "" {
		cfg.API.Token = *token
	}
	if *timeout > 0 {
		cfg.API.TimeoutSeconds = *timeout
	}

	// Logs go to a file so they don't corrupt the TUI
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.File); err != nil {
		log.Fatal(err)
	}

	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithToken(cfg.API.Token),
		api.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second}),
	)

	channels := make([]channel.Configured, len(cfg.Company.Channels))
	for i, cc := range cfg.Company.Channels {
		channels[i] = channel.Configured{Type: cc.Type, ChannelID: cc.ChannelID}
	}

	status := tui.NewStatusNotifier()
	list := contact.NewListController(client, status,
		contact.WithDebounce(time.Duration(cfg.Search.DebounceMillis)*time.Millisecond))
	form := contact.NewFormController(client, status, cfg.Company.Name, channels, nil, nil)

	// One-shot export mode skips the TUI entirely
	if *exportPath != "" {
		if err := runExport(list, status, *exportPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	model := tui.New(list, form, client, status)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Debounced searches land off the event loop; poke the program so it
	// re-renders with the fresh list.
	list.SetOnChange(func() {
		p.Send(tui.ListUpdatedMsg{})
	})

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(list *contact.ListController, status *tui.StatusNotifier, path string) error {
	defer list.Close()
	list.Refresh(context.Background(), false)
	if msg, isErr := status.Current(); isErr {
		return fmt.Errorf("fetching contacts: %s", msg)
	}
	rows := list.ExportRows()
	if err := export.WriteCSV(path, contact.ExportHeaders, rows); err != nil {
		return err
	}
	fmt.Printf("Exported %d contacts to %s\n", len(rows), path)
	return nil
}
