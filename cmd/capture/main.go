// Package main is the interactive capture client: a terminal form that runs
// the full capture pipeline (location acquisition, media collection,
// submission building) against a running API server.
//
// Coordinates come from -lat/-lng flags standing in for a device sensor, with
// the same tiered fallback a device would use: cached fix first, then a fresh
// fix, then the static default.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pkordes/travel-log/backend/internal/capture/location"
	"github.com/pkordes/travel-log/backend/internal/capture/media"
	"github.com/pkordes/travel-log/backend/internal/capture/submit"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the travel log API")
	lat := flag.Float64("lat", 0, "current latitude (device sensor stand-in)")
	lng := flag.Float64("lng", 0, "current longitude (device sensor stand-in)")
	noSensor := flag.Bool("no-sensor", false, "simulate a device with no GPS fix available")
	denyLocation := flag.Bool("deny-location", false, "withhold location permission")
	flag.Parse()

	// The fix cache plays the role of the OS location cache: a fix from a
	// previous run is returned immediately without "powering up" the sensor.
	cachePath := filepath.Join(os.TempDir(), "travel-log-fix.json")

	sensor := &location.FixedProvider{
		Position: location.Position{
			Coordinate: coordinateOf(*lat, *lng),
			Timestamp:  time.Now(),
		},
	}
	if *noSensor {
		sensor.Err = fmt.Errorf("no fix available")
	}

	acquirer := location.NewAcquirer(
		location.StaticChecker(!*denyLocation),
		location.NewCachedProvider(sensor, cachePath, time.Hour),
	)
	client := submit.NewClient(*apiURL, submit.NewBuilder(submit.OpenFileAsset))

	p := tea.NewProgram(newModel(acquirer, media.NewCollector(), client))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
