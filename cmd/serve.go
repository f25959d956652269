package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-pathtracer/web/server"
)

// Serve starts the web server
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	srv := server.NewServer(server.Config{
		Port:       ctx.Int("port"),
		ScenesDir:  ctx.String("scenes-dir"),
		MaxWidth:   ctx.Int("max-width"),
		MaxSamples: ctx.Int("max-spp"),
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
