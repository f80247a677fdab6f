package buffer

import (
	util "github.com/pagedb/pagedb/internal/utils"
)

// ClockReplacer implements the second-chance replacement policy: a
// circular hand over the frame array that clears reference bits on
// its way and victimizes the first valid, unreferenced, unpinned
// frame. The hand persists across calls.
type ClockReplacer struct {
	frames []FrameDesc
	hand   util.FrameID
	// evict writes back and unmaps the chosen victim; supplied by the
	// pool so the policy stays free of directory and I/O knowledge.
	evict func(util.FrameID) error
}

func NewClockReplacer(frames []FrameDesc, evict func(util.FrameID) error) *ClockReplacer {
	return &ClockReplacer{
		frames: frames,
		// start just before slot 0 so the first advance lands there
		hand:  util.FrameID(len(frames) - 1),
		evict: evict,
	}
}

func (c *ClockReplacer) advance() {
	c.hand = (c.hand + 1) % util.FrameID(len(c.frames))
}

// Victim runs a bounded sweep of at most 2xN steps: every slot is
// visited twice, so a frame whose reference bit the first pass
// cleared is still reachable. Empty slots are taken immediately; a
// chosen occupant is written back (if dirty) and cleared before its
// slot is returned.
func (c *ClockReplacer) Victim() (util.FrameID, error) {
	for step := 0; step < 2*len(c.frames); step++ {
		c.advance()
		fd := &c.frames[c.hand]

		if !fd.valid {
			return c.hand, nil
		}
		if fd.refBit {
			fd.refBit = false // second chance
			continue
		}
		if fd.pinCount > 0 {
			continue
		}

		if err := c.evict(c.hand); err != nil {
			return util.InvalidFrameID, err
		}
		return c.hand, nil
	}

	return util.InvalidFrameID, util.ErrBufferExceeded
}
