package ghosttrap

// OpenDoors sweeps the doors to (max, 0). The two servos always move in
// opposite directions, so left+right is the full sweep at every step. There is
// no position feedback; the sweep always starts from the far end.
func (t *Trap) OpenDoors() {
	max := t.cfg.Door.MaxAngle
	t.sweep(func(angle int) (int, int) {
		return angle, max - angle
	})
	t.log.Info("Doors Opened")
}

// CloseDoors sweeps the doors to (0, max).
func (t *Trap) CloseDoors() {
	max := t.cfg.Door.MaxAngle
	t.sweep(func(angle int) (int, int) {
		return max - angle, angle
	})
	t.log.Info("Doors Closed")
}

func (t *Trap) sweep(position func(angle int) (left, right int)) {
	max, step := t.cfg.Door.MaxAngle, t.cfg.Door.Step
	for angle := 0; ; angle += step {
		if angle > max {
			angle = max
		}
		t.hw.SetDoors(position(angle))
		t.clock.Sleep(t.cfg.Door.StepDelay)
		if angle == max {
			return
		}
	}
}
