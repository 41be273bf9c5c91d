package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opcontrol/autoseq"
	"github.com/opcontrol/autoseq/mission"
	"github.com/opcontrol/autoseq/sim"
)

func newRunCmd() *cobra.Command {
	var (
		configPath   string
		tickRate     time.Duration
		speed        float64
		pathTime     float64
		captureAfter float64
		hintLevel    int
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulated mission to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mission.LoadConfig(configPath)
			if err != nil {
				return err
			}

			log := logger.Level(zerolog.InfoLevel)
			if verbose {
				log = logger.Level(zerolog.DebugLevel)
			}

			drive := sim.NewDriveBase(pathTime)
			intake := sim.NewIntake(captureAfter)
			m := mission.NewShuttle(cfg, mission.Collaborators{
				Drive:     drive,
				Intake:    intake,
				Arm:       sim.NewArm(),
				Indicator: sim.NewLEDStrip(),
				Detectors: []mission.Detector{sim.NewStaticDetector(hintLevel)},
			}, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			loop := autoseq.NewLoop(autoseq.LoopConfig{TickRate: tickRate, Speed: speed})
			err = loop.Run(ctx, func(elapsed float64) bool {
				drive.Advance(elapsed)
				intake.Advance(elapsed)
				return m.Tick(elapsed)
			})
			if err == context.Canceled {
				m.Cancel()
				err = nil
			}
			if err != nil {
				return err
			}

			snap := m.Status()
			log.Info().
				Uint64("ticks", snap.Ticks).
				Uint64("transitions", snap.Transitions).
				Float64("t", snap.Elapsed).
				Msg("run finished")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mission config file (YAML)")
	cmd.Flags().DurationVar(&tickRate, "tick", 20*time.Millisecond, "control period")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "mission-time multiplier")
	cmd.Flags().Float64Var(&pathTime, "path-time", 1.0, "simulated seconds per path follow")
	cmd.Flags().Float64Var(&captureAfter, "capture-after", 0.5, "simulated seconds until the intake captures; negative never captures")
	cmd.Flags().IntVar(&hintLevel, "hint", 2, "marker position the simulated detector reports")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log step transitions")
	return cmd
}
