package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pynezz/gungnir/internal/analysis"
	"github.com/pynezz/gungnir/internal/api"
	"github.com/pynezz/gungnir/internal/config"
	"github.com/pynezz/gungnir/internal/database"
	"github.com/pynezz/gungnir/internal/database/stores"
	"github.com/pynezz/gungnir/internal/fswatcher"
	"github.com/pynezz/gungnir/internal/oracle"
	"github.com/pynezz/gungnir/internal/orchestrator"
	"github.com/pynezz/gungnir/internal/scanner"
	"github.com/pynezz/gungnir/internal/tui"
	"github.com/pynezz/gungnir/internal/util"
	"github.com/pynezz/gungnir/pkg/version"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	dashboard := flag.Bool("dashboard", false, "Render the terminal dashboard instead of serving the API")
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		return
	}

	fmt.Println(tui.AsciiArt())
	util.PrintInfo(version.Info())

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println(err)
		fmt.Println("Exiting...")
		return
	}

	db, err := database.InitDB(cfg.Database.Path)
	if err != nil {
		util.PrintError("Failed to initialize database: " + err.Error())
		return
	}

	st, err := stores.New(db)
	if err != nil {
		util.PrintError("Failed to initialize stores: " + err.Error())
		return
	}

	selector := scanner.NewSelector(scanner.Catalogs{
		Basic:    cfg.Scanner.Payloads.Basic,
		Advanced: cfg.Scanner.Payloads.Advanced,
		Evasion:  cfg.Scanner.Payloads.Evasion,
	})
	crawler := scanner.NewCrawler(time.Duration(cfg.Scanner.FetchTimeout) * time.Second)
	gen := oracle.NewClient(cfg.Oracle.Endpoint, cfg.Oracle.APIKey, time.Duration(cfg.Oracle.Timeout)*time.Second)
	enricher := analysis.NewEnricher(gen)

	orch := orchestrator.New(st, crawler, selector, enricher, cfg.Scanner.Workers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch.Start(ctx)

	if *dashboard {
		if err := tui.Display(orch.Stats); err != nil {
			util.PrintError(err.Error())
		}
		return
	}

	// Hot reload the payload catalog overrides on config writes
	go func() {
		err := fswatcher.Watch(ctx, *configPath, func() {
			reloaded, err := config.LoadConfig(*configPath)
			if err != nil {
				util.PrintError("Config reload failed: " + err.Error())
				return
			}
			selector.SetCatalogs(scanner.Catalogs{
				Basic:    reloaded.Scanner.Payloads.Basic,
				Advanced: reloaded.Scanner.Payloads.Advanced,
				Evasion:  reloaded.Scanner.Payloads.Evasion,
			})
			util.PrintSuccess("Reloaded payload catalogs")
		})
		if err != nil {
			util.PrintWarning("Config watcher disabled: " + err.Error())
		}
	}()

	app, err := api.NewServer(cfg, orch)
	if err != nil {
		util.PrintError("Failed to initialize API server: " + err.Error())
		return
	}

	if err := app.Listen(cfg.Network.ListenAddr); err != nil {
		util.PrintError(err.Error())
	}
}
