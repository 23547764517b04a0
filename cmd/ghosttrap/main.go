package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/tigerbot-team/ghosttrap/pkg/clock"
	"github.com/tigerbot-team/ghosttrap/pkg/config"
	"github.com/tigerbot-team/ghosttrap/pkg/ghosttrap"
	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
	"github.com/tigerbot-team/ghosttrap/pkg/joystick"
	"github.com/tigerbot-team/ghosttrap/pkg/preview"
	"github.com/tigerbot-team/ghosttrap/pkg/sound"
)

var (
	configFile  = "/cfg/ghosttrap.yaml"
	inUseFile   = "/cfg/ghosttrap-in-use.yaml"
	dummy       = false
	joystickDev = ""
	previewFile = ""
	verbose     = false
)

func init() {
	pflag.StringVarP(&configFile, "config", "c", configFile, "YAML file overriding the built-in settings")
	pflag.StringVar(&inUseFile, "in-use", inUseFile, "where to write the settings in use (empty to skip)")
	pflag.BoolVar(&dummy, "dummy", dummy, "use dummy hardware instead of GPIO/I2C/SPI")
	pflag.StringVarP(&joystickDev, "joystick", "j", joystickDev, "joystick device to use as the three buttons, e.g. /dev/input/js0")
	pflag.StringVar(&previewFile, "preview", previewFile, "with --dummy, render the trap to this PNG after every tick")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
}

func main() {
	pflag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	fmt.Println("---- Ghost trap ----")

	cfg, err := config.Load(configFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	if inUseFile != "" {
		if err := cfg.WriteInUse(inUseFile); err != nil {
			log.WithError(err).Warn("Failed to write config in use")
		}
	}

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	registerSignalHandlers(cancel, log)

	errg, ctx := errgroup.WithContext(ctx)

	var buttons hardware.ButtonSource
	if joystickDev != "" {
		j, err := joystick.NewJoystick(joystickDev)
		if err != nil {
			log.WithError(err).Fatal("Failed to open joystick")
		}
		log.Info("Opened joystick")
		jb := &joystick.Buttons{}
		buttons = jb
		errg.Go(func() error {
			<-ctx.Done()
			// Unblocks the pending read.
			return j.Close()
		})
		errg.Go(func() error {
			err := jb.Loop(ctx, j)
			if ctx.Err() == nil {
				log.WithError(err).Warn("Joystick failed, carrying on with the buttons")
			}
			return nil
		})
	}

	var (
		hw     hardware.Interface
		render func()
	)
	if dummy {
		log.Info("Using dummy hardware")
		d := hardware.NewDummy(clock.Real{}, cfg.Sounds, buttons, log.WithField("hw", "dummy"))
		hw = d
		if previewFile != "" {
			render = func() {
				if err := preview.Render(d.Snapshot(), cfg.Door.MaxAngle, previewFile); err != nil {
					log.WithError(err).Warn("Failed to render preview")
				}
			}
		}
	} else {
		player := sound.New(map[string]string{
			string(hardware.ClipTrap):  cfg.Sounds.Trap,
			string(hardware.ClipTaunt): cfg.Sounds.Taunt,
		}, log.WithField("subsystem", "sound"))
		defer player.Close()

		h, err := hardware.New(cfg, player, buttons, log.WithField("hw", "real"))
		if err != nil {
			log.WithError(err).Fatal("Failed to open hardware")
		}
		defer func() {
			log.Info("Turning everything off for shut down")
			h.Shutdown()
			time.Sleep(100 * time.Millisecond)
		}()
		hw = h
	}

	trap := ghosttrap.New(hw, clock.Real{}, cfg, log)
	errg.Go(func() error {
		defer cancel()
		trap.Boot()
		trap.Run(ctx, func(seq ghosttrap.Sequence) {
			log.WithField("sequence", seq).Debug("Tick done")
			if render != nil {
				render()
			}
		})
		return nil
	})

	if err := errg.Wait(); err != nil && err != context.Canceled {
		log.WithError(err).Error("Stopped with error")
	}
	log.Info("Ghost trap stopped")
}

func registerSignalHandlers(cancelFunc context.CancelFunc, log logrus.FieldLogger) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.WithField("signal", s).Info("Signal received, finishing the current sequence")
		cancelFunc()
	}()
}
