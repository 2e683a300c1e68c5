package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"overtime-ui/backend"
	"overtime-ui/config"
	"overtime-ui/logger"
	"overtime-ui/viewsync"
)

type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "overtime-ui",
		Short:         "Web and terminal front end for the overtime tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./overtime-ui.yaml)")

	root.AddCommand(a.serveCommand(), a.statusCommand(), a.saveCommand(), a.deleteCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) clock() (func() time.Time, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

func (a *app) controller(b viewsync.Backend) (*viewsync.Controller, error) {
	clock, err := a.clock()
	if err != nil {
		return nil, err
	}
	return viewsync.NewController(b, viewsync.Options{
		HistoryTarget:   a.cfg.UI.HistoryTarget,
		DefaultClockOut: a.cfg.UI.DefaultClockOut,
		Clock:           clock,
		Logger:          a.log,
	}), nil
}

func (a *app) client() *backend.Client {
	return backend.NewClient(a.cfg.Backend.BaseURL)
}
