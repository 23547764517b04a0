package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/tigerbot-team/ghosttrap/pkg/clock"
	"github.com/tigerbot-team/ghosttrap/pkg/config"
	"github.com/tigerbot-team/ghosttrap/pkg/ghosttrap"
	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
	"github.com/tigerbot-team/ghosttrap/pkg/sound"
)

func main() {
	configFile := pflag.StringP("config", "c", "/cfg/ghosttrap.yaml", "YAML file overriding the built-in settings")
	pflag.Parse()

	log := logrus.New()
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Println("Failed to load config", err)
		return
	}

	hw, err := hardware.New(cfg, sound.Unavailable("servo tests"), nil, log)
	if err != nil {
		fmt.Println("Failed to open hardware", err)
		return
	}
	defer hw.Shutdown()
	trap := ghosttrap.New(hw, clock.Real{}, cfg, log)

	fmt.Printf(
		`Commands:
    d <left> <right>    # Move the door servos to raw angles
    o                   # Run the door open sweep
    c                   # Run the door close sweep
    b <n> <0|1>         # Bar graph LED n off/on
    r <0|1>             # Laser relay off/on

<left>, <right>   Servo angle 0-%d; open is %d 0, closed is 0 %d
<n>               Bar graph LED 0-%d
`, cfg.Door.MaxAngle, cfg.Door.MaxAngle, cfg.Door.MaxAngle, config.NumBars-1)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "o":
			trap.OpenDoors()
		case "c":
			trap.CloseDoors()
		case "d", "b":
			if len(parts) < 3 {
				fmt.Println("Not enough parameters")
				continue
			}
			a, err1 := strconv.Atoi(parts[1])
			b, err2 := strconv.Atoi(parts[2])
			if err1 != nil || err2 != nil {
				fmt.Println("Expected ints, not ", parts[1:])
				continue
			}
			if parts[0] == "d" {
				fmt.Printf("Setting doors to %d/%d\n", a, b)
				hw.SetDoors(a, b)
				continue
			}
			if a < 0 || a >= config.NumBars {
				fmt.Printf("Expected 0 <= n < %d\n", config.NumBars)
				continue
			}
			duty := uint16(config.DutyOff)
			if b != 0 {
				duty = config.DutyFull
			}
			hw.SetBar(a, duty)
		case "r":
			if len(parts) < 2 {
				fmt.Println("Not enough parameters")
				continue
			}
			hw.SetRelay(parts[1] != "0")
		default:
			fmt.Println("Unknown command", parts[0])
		}
	}
}
