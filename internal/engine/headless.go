package engine

import (
	"Skycycle/internal/logger"
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// FrameAdvancer is a host that counts presented frames, used to age
// outstanding probe captures
type FrameAdvancer interface {
	AdvanceFrame()
}

// FrameInfo describes a completed headless frame
type FrameInfo struct {
	Frame   int
	Elapsed float64
}

// Headless steps a world at a fixed delta time with no window
type Headless struct {
	World     World
	Host      FrameAdvancer
	DeltaTime float64
	// OnFrame runs after each frame, returning false stops the run
	OnFrame func(info FrameInfo) bool
}

// Run advances the world for the given number of frames, or until ctx is
// done or OnFrame asks to stop. It returns the frames actually run.
func (h *Headless) Run(ctx context.Context, frames int) (FrameInfo, error) {
	var info FrameInfo
	if h.World == nil {
		return info, fmt.Errorf("headless run needs a world")
	}
	if !(h.DeltaTime > 0) || math.IsInf(h.DeltaTime, 0) {
		return info, fmt.Errorf("delta time must be positive, got %v", h.DeltaTime)
	}
	if frames < 0 {
		return info, fmt.Errorf("frame count must not be negative, got %d", frames)
	}

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			logger.Log.Info("Headless run interrupted", zap.Int("frame", info.Frame))
			return info, err
		}
		h.World.Update(h.DeltaTime)
		if h.Host != nil {
			h.Host.AdvanceFrame()
		}
		info.Frame++
		info.Elapsed += h.DeltaTime
		if h.OnFrame != nil && !h.OnFrame(info) {
			break
		}
	}
	logger.Log.Debug("Headless run finished",
		zap.Int("frames", info.Frame),
		zap.Float64("elapsed", info.Elapsed))
	return info, nil
}
