package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantbeam/live-scanner/src/data"
	"github.com/quantbeam/live-scanner/src/eventmodels"
	"github.com/quantbeam/live-scanner/src/eventpubsub"
	"github.com/quantbeam/live-scanner/src/scanner"
	"github.com/quantbeam/live-scanner/src/utils"
)

type RunArgs struct {
	ConfigFile string
	GoEnv      string
}

var runCmd = &cobra.Command{
	Use:   "scanner --config scanner.yaml",
	Short: "Aggregate base bars into higher timeframes and scan momentum strategies",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		if err := Run(RunArgs{ConfigFile: configFile, GoEnv: goEnv}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(".", args.GoEnv); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventpubsub.Init()

	cfg, err := eventmodels.LoadScannerConfig(args.ConfigFile)
	if err != nil {
		return fmt.Errorf("error loading scanner config: %w", err)
	}

	if !cfg.Execution.DryRun {
		log.Warn("live order routing is not configured; signals will be logged only")
	}

	orchestrator, err := scanner.NewOrchestrator(cfg, scanner.DryRunExecutor{})
	if err != nil {
		return fmt.Errorf("error creating orchestrator: %w", err)
	}

	onBar := func(bar eventmodels.Bar) error {
		return orchestrator.OnBaseBar(bar)
	}

	// warmup replay and live bars flow through the identical handler
	if cfg.Feed.ReplayDir != "" {
		replay := data.NewCsvFeed(cfg.Feed.ReplayDir, cfg.Feed.Symbols)
		if err := replay.Run(ctx, onBar); err != nil {
			if ctx.Err() == nil {
				eventpubsub.Publish(eventpubsub.TerminalErrorEvent, err)
				return fmt.Errorf("replay feed: %w", err)
			}
		}

		log.Infof("warmup complete: %d bars processed", orchestrator.BarsProcessed())
	}

	if cfg.Feed.WebsocketURL != "" && ctx.Err() == nil {
		live := data.NewWebsocketFeed(cfg.Feed.WebsocketURL)
		if err := live.Run(ctx, onBar); err != nil {
			eventpubsub.Publish(eventpubsub.TerminalErrorEvent, err)
			return fmt.Errorf("live feed: %w", err)
		}
	}

	fmt.Println(orchestrator.Stats())
	return nil
}

func main() {
	runCmd.PersistentFlags().String("config", "scanner.yaml", "Path to the scanner yaml config.")
	runCmd.PersistentFlags().String("go-env", "development", "The go environment to run the command in.")

	runCmd.Execute()
}
