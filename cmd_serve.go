package main

import (
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"overtime-ui/backend"
	"overtime-ui/backend/backendtest"
	"overtime-ui/handlers"
	"overtime-ui/middleware"
	"overtime-ui/tmpl"
)

func (a *app) serveCommand() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Session.Validate(); err != nil {
				return err
			}

			client := a.client()
			if demo {
				url, err := a.startDemoBackend()
				if err != nil {
					return err
				}
				client = backend.NewClient(url)
			}

			controller, err := a.controller(client)
			if err != nil {
				return err
			}
			templates, err := tmpl.Load()
			if err != nil {
				return err
			}

			sessions := middleware.NewSessionCodec(a.cfg.Session.Secret, a.cfg.Session.TTL, a.cfg.Session.SecureCookie)
			h := handlers.NewOvertimeHandler(a.cfg, templates, controller, client, sessions, a.log)

			csrfKey := sha256.Sum256([]byte("csrf:" + a.cfg.Session.Secret))
			router := handlers.NewRouter(h, handlers.RouterOptions{
				CSRFKey:      csrfKey[:],
				SecureCookie: a.cfg.Session.SecureCookie,
			})

			a.log.Info("server starting", zap.String("addr", a.cfg.ListenAddr()), zap.Bool("demo", demo))
			return http.ListenAndServe(a.cfg.ListenAddr(), router)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "serve against an in-memory simulated backend")
	return cmd
}

func (a *app) startDemoBackend() (string, error) {
	clock, err := a.clock()
	if err != nil {
		return "", err
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("demo backend: %w", err)
	}
	fake := backendtest.New(clock)
	go func() {
		if err := http.Serve(ln, fake.Router()); err != nil {
			a.log.Error("demo backend stopped", zap.Error(err))
		}
	}()
	url := "http://" + ln.Addr().String()
	a.log.Info("demo backend listening", zap.String("url", url))
	return url, nil
}
