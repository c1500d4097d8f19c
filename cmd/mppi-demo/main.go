// mppi-demo is a headless-friendly harness around the optimizer package:
// it runs a controller against a straight-line scenario and records every
// tick, then lets you replay that run as ASCII plots or a live terminal
// dashboard. Grounded on the teacher's cmd/dynsim, which plays the same
// run -> list -> plot -> live role for its simulation models.
package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/IhabMohamed/mppic/internal/critics"
	"github.com/IhabMohamed/mppic/internal/goalchecker"
	"github.com/IhabMohamed/mppic/internal/mppi"
	"github.com/IhabMohamed/mppic/internal/optimizer"
	"github.com/IhabMohamed/mppic/internal/paramserver"
	"github.com/IhabMohamed/mppic/internal/recorder"
)

var (
	dataDir     string
	seed        int64
	batchSize   int
	timeSteps   int
	motionModel string
	speedLimit  float64
	speedPct    bool
	maxTicks    int
	startX      float64
	startY      float64
	startYaw    float64
	goalX       float64
	goalY       float64
	goalYaw     float64
	fps         int
	configPath  string
	watchConfig bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mppi-demo",
		Short: "MPPI local trajectory controller demo harness",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mppi-demo", "run data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drive a robot toward a goal and record every tick",
		RunE:  runController,
	}
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "noise generator seed")
	runCmd.Flags().IntVar(&batchSize, "batch-size", mppi.DefaultSettings().BatchSize, "sample batch size")
	runCmd.Flags().IntVar(&timeSteps, "time-steps", mppi.DefaultSettings().TimeSteps, "rollout horizon")
	runCmd.Flags().StringVar(&motionModel, "motion-model", "DiffDrive", "DiffDrive, Omni, or Ackermann")
	runCmd.Flags().Float64Var(&speedLimit, "speed-limit", mppi.NoSpeedLimit, "active speed limit (mppi.NoSpeedLimit to clear)")
	runCmd.Flags().BoolVar(&speedPct, "speed-limit-percentage", false, "treat speed-limit as a percentage of base constraints")
	runCmd.Flags().IntVar(&maxTicks, "max-ticks", 200, "give up after this many ticks without reaching the goal")
	runCmd.Flags().Float64Var(&startX, "start-x", 0, "start x")
	runCmd.Flags().Float64Var(&startY, "start-y", 0, "start y")
	runCmd.Flags().Float64Var(&startYaw, "start-yaw", 0, "start yaw")
	runCmd.Flags().Float64Var(&goalX, "goal-x", 5, "goal x")
	runCmd.Flags().Float64Var(&goalY, "goal-y", 0, "goal y")
	runCmd.Flags().Float64Var(&goalYaw, "goal-yaw", 0, "goal yaw")
	runCmd.Flags().StringVar(&configPath, "config", "", "load Settings from a YAML parameter file (overrides batch-size/time-steps/motion-model flags)")
	runCmd.Flags().BoolVar(&watchConfig, "watch-config", false, "re-read --config on every write and reconfigure the optimizer live")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run's pose and cost history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [run_id]",
		Short: "replay a recorded run as a live terminal dashboard",
		Args:  cobra.ExactArgs(1),
		RunE:  watchRun,
	}
	watchCmd.Flags().IntVar(&fps, "fps", 10, "playback rate")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildPath(startX, startY, goalX, goalY float64, n int) optimizer.Path {
	p := optimizer.Path{Xs: make([]float64, n), Ys: make([]float64, n), Yaws: make([]float64, n)}
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		p.Xs[i] = startX + frac*(goalX-startX)
		p.Ys[i] = startY + frac*(goalY-startY)
	}
	return p
}

// integrateCommand advances pose by one tick of the issued command,
// mirroring the world-frame update the trajectory package uses internally
// (the vy terms vanish for non-holonomic commands, whose vy is zero), for
// the demo harness's own "real robot" stand-in.
func integrateCommand(pose [3]float64, cmd [3]float64, dt float64) [3]float64 {
	x, y, yaw := pose[0], pose[1], pose[2]
	vx, vy, wz := cmd[0], cmd[1], cmd[2]
	sin, cos := math.Sin(yaw), math.Cos(yaw)
	x += (vx*cos - vy*sin) * dt
	y += (vx*sin + vy*cos) * dt
	yaw += wz * dt
	return [3]float64{x, y, yaw}
}

func runController(cmd *cobra.Command, args []string) error {
	settings := mppi.DefaultSettings()
	settings.BatchSize = batchSize
	settings.TimeSteps = timeSteps
	settings.MotionModelName = motionModel

	if configPath != "" {
		loaded, err := paramserver.Load(configPath)
		if err != nil {
			return err
		}
		settings = loaded
	}

	specs := []critics.Spec{
		{Name: "ReferenceTrajectoryCritic", Weight: 5},
		{Name: "GoalCritic", Weight: 5},
		{Name: "GoalAngleCritic", Weight: 3},
		{Name: "PathAngleCritic", Weight: 2},
		{Name: "PreferForwardCritic", Weight: 1},
		{Name: "TwirlingCritic", Weight: 1},
	}

	opt, err := optimizer.New(settings, uint64(seed), specs)
	if err != nil {
		return err
	}
	if speedLimit != mppi.NoSpeedLimit {
		opt.SetSpeedLimit(speedLimit, speedPct)
	}

	if watchConfig {
		if configPath == "" {
			return fmt.Errorf("--watch-config requires --config")
		}
		watcher, err := paramserver.NewWatcher(configPath, func(s mppi.Settings) {
			if err := opt.Reconfigure(s); err != nil {
				fmt.Fprintf(os.Stderr, "config reload rejected: %v\n", err)
			}
		}, func(err error) {
			fmt.Fprintf(os.Stderr, "config watch error: %v\n", err)
		})
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	path := buildPath(startX, startY, goalX, goalY, timeSteps)
	goal := [3]float64{goalX, goalY, goalYaw}
	gc := goalchecker.NewSimple(0.25, 0.1)

	rec := recorder.New(dataDir, uint64(seed), settings)
	pose := [3]float64{startX, startY, startYaw}

	var t float64
	var ticksRun int
	var twist [3]float64 // last issued command, stood in for measured robot velocity
	for i := 0; i < maxTicks; i++ {
		command, err := opt.EvalControl(pose, twist, goal, path, gc, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tick %d: %v\n", i, err)
			break
		}
		rec.Record(recorder.Tick{Time: t, Pose: pose, Command: command, MinCost: opt.LastMinCost(), FailFlag: opt.LastFailFlag()})
		ticksRun++
		pose = integrateCommand(pose, command, settings.ModelDt)
		twist = command
		t += settings.ModelDt

		if gc.IsGoalReached(pose, goal) {
			break
		}
	}

	if err := rec.Flush(); err != nil {
		return err
	}
	fmt.Printf("run %s: %d ticks, final pose (%.3f, %.3f, %.3f)\n", rec.RunID(), ticksRun, pose[0], pose[1], pose[2])
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no runs found")
			return nil
		}
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIMESTAMP\tSEED\tTICKS")
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := recorder.Load(dataDir, e.Name())
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"), meta.Seed, meta.TickCount)
	}
	return w.Flush()
}
