// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package animate interpolates numeric display values from 0 to a target with an ease-out-cubic
// curve.
package animate

import (
	"context"
	"github.com/benbjohnson/clock"
	"math"
	"strconv"
	"time"
)

const (
	DefaultDuration = 550 * time.Millisecond
	// DefaultInterval is roughly one frame at 60 fps.
	DefaultInterval = 16 * time.Millisecond
)

// EaseOutCubic is 1-(1-t)^3 with t clamped to [0,1].
func EaseOutCubic(t float64) float64 {
	t = math.Max(0, math.Min(t, 1))
	return 1 - math.Pow(1-t, 3)
}

// Progress is the elapsed fraction of an animation, capped at 1.
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Min(float64(elapsed)/float64(duration), 1)
}

// Format renders v with a fixed number of decimals.
func Format(v float64, decimals uint) string {
	return strconv.FormatFloat(v, 'f', int(decimals), 64)
}

// Value is the display string after elapsed, and whether that is the terminal frame.
func Value(target float64, decimals uint, elapsed, duration time.Duration) (string, bool) {
	t := Progress(elapsed, duration)
	if t >= 1 {
		return Format(target, decimals), true
	}
	return Format(target*EaseOutCubic(t), decimals), false
}

// Sequence lists every frame of an animation sampled at interval. The last element is always
// the target itself.
func Sequence(target float64, decimals uint, duration, interval time.Duration) []string {
	if interval <= 0 {
		interval = DefaultInterval
	}

	var frames []string
	for elapsed := interval; ; elapsed += interval {
		text, done := Value(target, decimals, elapsed, duration)
		frames = append(frames, text)
		if done {
			return frames
		}
	}
}

// Counter is one animated display slot. Starting it again abandons the running animation:
// frames carry the tag they were scheduled with and stale tags are ignored by Step.
type Counter struct {
	decimals uint
	duration time.Duration

	tag     int
	target  float64
	start   time.Time
	text    string
	running bool
}

func NewCounter(decimals uint, duration time.Duration) Counter {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Counter{decimals: decimals, duration: duration, text: Format(0, decimals)}
}

// Start restarts the slot from 0 towards target and returns the tag frames must carry.
func (c *Counter) Start(target float64, now time.Time) int {
	c.tag++
	c.target = target
	c.start = now
	c.text = Format(0, c.decimals)
	c.running = true
	return c.tag
}

// Reset stops the slot at 0 and abandons the running animation.
func (c *Counter) Reset() {
	c.tag++
	c.target = 0
	c.text = Format(0, c.decimals)
	c.running = false
}

// Step renders the frame at now. It returns false once the animation is over, or when tag
// belongs to an abandoned animation.
func (c *Counter) Step(tag int, now time.Time) bool {
	if tag != c.tag || !c.running {
		return false
	}

	text, done := Value(c.target, c.decimals, now.Sub(c.start), c.duration)
	c.text = text
	c.running = !done
	return c.running
}

// Text is the current display string.
func (c Counter) Text() string {
	return c.text
}

func (c Counter) Running() bool {
	return c.running
}

func (c Counter) Target() float64 {
	return c.target
}

// Play animates c towards target on clk, calling draw for every frame, and returns once the
// terminal frame was drawn.
func Play(ctx context.Context, clk clock.Clock, c *Counter, interval time.Duration, target float64, draw func(string)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	tag := c.Start(target, clk.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			more := c.Step(tag, now)
			draw(c.Text())
			if !more {
				return nil
			}
		}
	}
}
