package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tigerbot-team/ghosttrap/pkg/hardware"
	"github.com/tigerbot-team/ghosttrap/pkg/joystick"
)

// Prints every event and, whenever it changes, what the trap would see on its
// three buttons.
func main() {
	jDev := os.Getenv("JOYSTICK_DEVICE")
	if jDev == "" {
		jDev = "/dev/input/js0"
	}
	var j *joystick.Joystick
	firstLog := true
	for {
		var err error
		j, err = joystick.NewJoystick(jDev)
		if err == nil {
			break
		}
		if firstLog {
			fmt.Printf("Waiting for joystick: %v.\n", err)
			firstLog = false
		}
		time.Sleep(1 * time.Second)
	}
	defer j.Close()
	fmt.Printf("Opened joystick\n")

	var buttons joystick.Buttons
	var last hardware.Buttons
	for {
		event, err := j.ReadEvent()
		if err != nil {
			fmt.Printf("Failed to read from joystick: %v.\n", err)
			return
		}
		fmt.Printf("Event from joystick: %s\n", event)
		buttons.OnEvent(event)
		if held := buttons.Buttons(); held != last {
			fmt.Printf("Trap buttons: start=%v taunt=%v door=%v\n", held.Start, held.Taunt, held.DoorOpen)
			last = held
		}
	}
}
