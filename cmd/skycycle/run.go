package main

import (
	"Skycycle/internal/engine"
	"Skycycle/internal/logger"
	"Skycycle/internal/renderer"
	"Skycycle/internal/scene"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runWindowed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gopher := engine.NewGopher(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	return gopher.Render(100, 100, func(host *renderer.GLHost) (engine.World, renderer.SkyDrawer, error) {
		sc, err := scene.Build(cfg, host)
		if err != nil {
			return nil, nil, err
		}
		sky, err := renderer.CreateBlendedSkybox(sc.Blender.Material())
		if err != nil {
			sc.Close()
			return nil, nil, err
		}
		logger.Log.Info("Sky cycle running",
			zap.String("profile", sc.Driver.Profile().Name),
			zap.Float64("duration", cfg.Cycle.Duration))
		return sc, sky, nil
	})
}
