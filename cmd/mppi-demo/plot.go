package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/IhabMohamed/mppic/internal/recorder"
)

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	meta, err := recorder.Load(dataDir, runID)
	if err != nil {
		return err
	}
	ticks, err := recorder.LoadTicks(dataDir, runID)
	if err != nil {
		return err
	}
	if len(ticks) == 0 {
		return fmt.Errorf("run %s has no recorded ticks", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("motion model: %s\n", meta.Settings.MotionModelName)
	fmt.Printf("ticks: %d\n\n", len(ticks))

	xs := make([]float64, len(ticks))
	ys := make([]float64, len(ticks))
	yaws := make([]float64, len(ticks))
	costs := make([]float64, len(ticks))
	for i, t := range ticks {
		xs[i] = t.Pose[0]
		ys[i] = t.Pose[1]
		yaws[i] = t.Pose[2]
		costs[i] = t.MinCost
	}

	fmt.Println(asciigraph.Plot(xs, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("x position vs tick")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(ys, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("y position vs tick")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(yaws, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("yaw vs tick")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(costs, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("winning sample cost vs tick")))

	return nil
}
