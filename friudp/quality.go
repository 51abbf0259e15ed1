package friudp

import (
	"sync/atomic"

	"github.com/openlbr/go-fri/fri"
)

// Degradation thresholds in consecutive missed cycles.
const (
	missesForGood = 2
	missesForFair = 4
	missesForPoor = 8
)

// qualityTracker derives a local connection-quality estimate from the
// missed-cycle pattern of the loop. It degrades after consecutive misses
// and recovers one level per window of clean cycles. The estimate
// complements the robot-measured quality carried in RobotState; it is the
// only quality signal available while no state arrives at all.
type qualityTracker struct {
	quality           atomic.Uint32
	consecutiveMisses int
	cleanCycles       int
	recoveryWindow    int
}

func newQualityTracker(recoveryWindow int) *qualityTracker {
	q := &qualityTracker{recoveryWindow: recoveryWindow}
	q.quality.Store(uint32(fri.ExcellentQuality))

	return q
}

// Quality returns the current local quality estimate. Safe for concurrent
// readers outside the cycle.
func (q *qualityTracker) Quality() fri.ConnectionQuality {
	return fri.ConnectionQuality(q.quality.Load())
}

// reset restores the tracker to a fresh connection.
func (q *qualityTracker) reset() {
	q.consecutiveMisses = 0
	q.cleanCycles = 0
	q.quality.Store(uint32(fri.ExcellentQuality))
}

// recordMiss records a missed cycle and returns the quality level and
// whether it degraded.
func (q *qualityTracker) recordMiss() (fri.ConnectionQuality, bool) {
	q.consecutiveMisses++
	q.cleanCycles = 0

	degraded := q.Quality()
	switch {
	case q.consecutiveMisses >= missesForPoor:
		degraded = fri.PoorQuality
	case q.consecutiveMisses >= missesForFair:
		degraded = fri.FairQuality
	case q.consecutiveMisses >= missesForGood:
		degraded = fri.GoodQuality
	}

	if degraded < q.Quality() {
		q.quality.Store(uint32(degraded))
		return degraded, true
	}

	return q.Quality(), false
}

// recordClean records a cycle with a received monitor message and returns
// the quality level and whether it improved.
func (q *qualityTracker) recordClean() (fri.ConnectionQuality, bool) {
	q.consecutiveMisses = 0

	cur := q.Quality()
	if cur == fri.ExcellentQuality {
		q.cleanCycles = 0
		return cur, false
	}

	q.cleanCycles++
	if q.cleanCycles < q.recoveryWindow {
		return cur, false
	}

	q.cleanCycles = 0
	improved := cur + 1
	q.quality.Store(uint32(improved))

	return improved, true
}
