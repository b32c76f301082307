package main

import (
	"Skycycle/internal/daycycle"
	"Skycycle/internal/engine"
	"Skycycle/internal/renderer"
	"Skycycle/internal/scene"
	"Skycycle/internal/signal"
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type transition struct {
	frame   int
	elapsed float64
	state   daycycle.StateID
	blend   float32
}

func parseCopySupport(s string) (renderer.CopyTextureSupport, error) {
	switch strings.ToLower(s) {
	case "none":
		return renderer.CopyNone, nil
	case "basic":
		// Everything except reading a render target back into a texture
		return renderer.CopyBasic | renderer.CopyCopy3D | renderer.CopyDifferentTypes | renderer.CopyTextureToRT, nil
	case "full":
		return renderer.CopyBasic | renderer.CopyCopy3D | renderer.CopyDifferentTypes | renderer.CopyTextureToRT | renderer.CopyRTToTexture, nil
	}
	return renderer.CopyNone, fmt.Errorf("unknown copy support %q (want none, basic or full)", s)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	support, err := parseCopySupport(copySupport)
	if err != nil {
		return err
	}

	host := renderer.NewHeadlessHost(support, captureLatency)
	sc, err := scene.Build(cfg, host)
	if err != nil {
		return err
	}
	defer sc.Close()

	var frame int
	var elapsed float64
	var transitions []transition
	// Transitions fire inside the world update, before OnFrame sees the frame
	record := func(id daycycle.StateID) {
		transitions = append(transitions, transition{frame: frame + 1, elapsed: elapsed + dt, state: id, blend: sc.Blender.Blend()})
	}
	signal.Subscribe(sc.Bus, func(daycycle.EnteredDay) { record(daycycle.Day) })
	signal.Subscribe(sc.Bus, func(daycycle.EnteredNight) { record(daycycle.Night) })

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := &engine.Headless{
		World:     sc,
		Host:      host,
		DeltaTime: dt,
		OnFrame: func(info engine.FrameInfo) bool {
			frame, elapsed = info.Frame, info.Elapsed
			return true
		},
	}

	start := time.Now()
	info, err := run.Run(ctx, frames)
	wall := time.Since(start)
	if err != nil && err != context.Canceled {
		return err
	}

	fmt.Printf("simulated %d frames (%.2fs sim time) in %v\n\n", info.Frame, info.Elapsed, wall)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tTIME\tSTATE\tBLEND")
	fmt.Fprintf(w, "%d\t%.3fs\t%s\t%s\n", 0, 0.0, daycycle.Day, "-")
	for _, tr := range transitions {
		fmt.Fprintf(w, "%d\t%.3fs\t%s\t%.3f\n", tr.frame, tr.elapsed, tr.state, tr.blend)
	}
	w.Flush()

	stats := sc.Blender.Reflections().Stats()
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "final state\t%s\n", sc.Driver.State())
	fmt.Fprintf(w, "cycle time\t%.4f\n", sc.Driver.CycleTime())
	fmt.Fprintf(w, "direction\t%+.0f\n", sc.Driver.Direction())
	fmt.Fprintf(w, "blend\t%.4f\n", sc.Blender.Blend())
	fmt.Fprintf(w, "copy supported\t%v\n", sc.Blender.Reflections().Supported())
	fmt.Fprintf(w, "probes created\t%d\n", stats.ProbesCreated)
	fmt.Fprintf(w, "captures requested\t%d\n", stats.CapturesRequested)
	fmt.Fprintf(w, "captures completed\t%d\n", stats.CapturesCompleted)
	fmt.Fprintf(w, "copies performed\t%d\n", stats.CopiesPerformed)
	fmt.Fprintf(w, "copies skipped\t%d\n", stats.CopiesSkipped)
	return w.Flush()
}
