package editor

import "time"

// SetClock replaces the sweeper's time source.
func (sw *Sweeper) SetClock(now func() time.Time) { sw.now = now }
