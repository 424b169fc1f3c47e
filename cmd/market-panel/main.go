package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/you/marketsvc/internal/client"
	"github.com/you/marketsvc/internal/config"
)

// terminalAlerter rings the terminal bell and prints banners. With
// autoAccept every new order is confirmed right away.
type terminalAlerter struct {
	autoAccept bool
}

func (a terminalAlerter) PlayCue() { fmt.Print("\a") }

func (a terminalAlerter) NotificationsPermitted() bool { return false }

func (a terminalAlerter) Notify(title, body string) error { return nil }

func (a terminalAlerter) ShowBanner(b client.Banner) {
	fmt.Printf("\n*** %s: %s (order %s)\n", b.Title, b.Message, b.OrderID)
	if !a.autoAccept {
		return
	}
	if err := b.Accept(context.Background()); err != nil {
		log.Printf("[panel] accept %s: %v", b.OrderID, err)
		return
	}
	log.Printf("[panel] accepted order %s", b.OrderID)
}

func main() {
	server := flag.String("server", "", "marketplace base URL (default: config public_url)")
	username := flag.String("username", os.Getenv("MARKET_PANEL_USERNAME"), "restaurant username")
	password := flag.String("password", os.Getenv("MARKET_PANEL_PASSWORD"), "restaurant password")
	autoAccept := flag.Bool("auto-accept", false, "confirm every new order immediately")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	base := strings.TrimRight(*server, "/")
	if base == "" {
		base = cfg.PublicURL
	}

	p := client.NewPanel(client.PanelConfig{
		ServerURL:      base,
		SocketURL:      "ws" + strings.TrimPrefix(base, "http") + "/ws",
		RequestTimeout: cfg.RequestTimeout,
		PollInterval:   cfg.PollInterval,
		Reconnect: client.SupervisorConfig{
			BaseDelay:  cfg.ReconnectBase,
			MaxDelay:   cfg.ReconnectMax,
			MaxRetries: cfg.ReconnectRetries,
		},
	}, terminalAlerter{autoAccept: *autoAccept})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := p.Login(ctx, *username, *password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	log.Printf("signed in as %s for restaurant %s", sess.Username, sess.RestaurantID)
	defer func() {
		if err := p.Logout(context.Background()); err != nil {
			log.Printf("logout: %v", err)
		}
	}()

	if err := p.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("panel: %v", err)
	}
}
