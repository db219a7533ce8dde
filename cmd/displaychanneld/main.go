// If you are AI: this is the entrypoint for the display channel daemon.
// It loads configuration, wires the channel against the UI-signal relay
// and the media clock, starts the listening surfaces, and handles
// graceful shutdown.

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"displaychannel/internal/aux"
	"displaychannel/internal/channel"
	"displaychannel/internal/config"
	"displaychannel/internal/mediaclock"
	"displaychannel/internal/server"
	"displaychannel/internal/uiobserver"
)

// main is the entrypoint for the display channel daemon.
func main() {
	configPath := flag.String("config", "configs/displaychanneld.example.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if len(cfg.Channel.Capabilities) > 0 {
		log.Printf("displaychanneld: extra advertised capability names %v have no wire-level effect; the channel only advertises its fixed capability set", cfg.Channel.Capabilities)
	}

	ctx := context.Background()

	relay := uiobserver.NewRelay()
	clock := mediaclock.NewSystem()
	ch := channel.New(channel.Config{
		ID:                       1,
		PixmapCacheID:            cfg.Channel.PixmapCacheID,
		GlzDictionaryID:          cfg.Channel.GlzDictionaryID,
		CacheSizeBytes:           cfg.Channel.CacheSizeBytes,
		GlzWindowSizeBytes:       cfg.Channel.GlzWindowSizeBytes,
		AdaptiveStreamingEnabled: cfg.Channel.AdaptiveStreaming,
		MonitorsMax:              cfg.Channel.MonitorsMax,
	}, clock, relay)

	if cfg.AuxPath != "" {
		auxCfg, err := aux.LoadConfig(cfg.AuxPath)
		if err != nil {
			log.Printf("displaychanneld: load aux config %s: %v, using defaults", cfg.AuxPath, err)
		} else {
			ch.SetAuxConfig(auxCfg)
		}
	}

	chCtx, chCancel := context.WithCancel(ctx)
	ch.Start(chCtx)

	srv := server.New(cfg, ch, relay, handleChannelConn)
	shutdownHandler := server.NewShutdownHandler(srv, ctx)

	go func() {
		if err := srv.Start(shutdownHandler.Context()); err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Printf("Shutdown error: %v", err)
		os.Exit(1)
	}

	chCancel()
	ch.Dispose()

	log.Println("Server shut down cleanly")
}
