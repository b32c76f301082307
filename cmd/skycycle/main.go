package main

import (
	"Skycycle/internal/config"
	"Skycycle/internal/logger"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	duration   float64

	frames         int
	dt             float64
	copySupport    string
	captureLatency int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "skycycle",
		Short:         "day/night sky cycle with blended skybox and reflections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a preset configuration")
	rootCmd.PersistentFlags().Float64Var(&duration, "duration", config.DefaultDuration, "seconds per day or night phase")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open a window and run the cycle",
		RunE:  runWindowed,
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "run the cycle headless at a fixed timestep",
		RunE:  runSimulation,
	}
	simulateCmd.Flags().IntVar(&frames, "frames", 1200, "frames to simulate")
	simulateCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep")
	simulateCmd.Flags().StringVar(&copySupport, "copy-support", "full", "texture copy support: none, basic or full")
	simulateCmd.Flags().IntVar(&captureLatency, "capture-latency", 1, "frames a reflection capture takes")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect and write configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the resolved configuration",
			RunE:  showConfig,
		},
		&cobra.Command{
			Use:   "presets",
			Short: "list available presets",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println("presets:")
				for _, p := range config.ListPresets() {
					fmt.Printf("  %s\n", p)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "check the resolved configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := loadConfig(cmd); err != nil {
					return err
				}
				fmt.Println("config ok")
				return nil
			},
		},
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the resolved configuration to a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				if err := config.Save(args[0], cfg); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", args[0])
				return nil
			},
		},
	)

	rootCmd.AddCommand(runCmd, simulateCmd, configCmd)

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves preset, then config file, then flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("duration") {
		cfg.Cycle.Duration = duration
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
