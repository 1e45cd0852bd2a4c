package core

import "sync"

/**
 * @brief Rolling counters for descriptor traffic. Totals accumulate for
 * the process lifetime; the PerFrame block restarts on every pool
 * reset so spikes in set churn are visible frame by frame.
 */
type MetricsState struct {
	SetsAllocatedTotal    uint64
	WritesBatchedTotal    uint64
	BarriersRecordedTotal uint64

	PerFrame struct {
		SetsAllocated    uint64
		WritesBatched    uint64
		BarriersRecorded uint64
	}
	FrameResets uint64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{}
	})
	return nil
}

func MetricsSetAllocated() {
	if metricsState == nil {
		return
	}
	metricsState.SetsAllocatedTotal++
	metricsState.PerFrame.SetsAllocated++
}

func MetricsWritesBatched(count int) {
	if metricsState == nil {
		return
	}
	metricsState.WritesBatchedTotal += uint64(count)
	metricsState.PerFrame.WritesBatched += uint64(count)
}

func MetricsBarrierRecorded() {
	if metricsState == nil {
		return
	}
	metricsState.BarriersRecordedTotal++
	metricsState.PerFrame.BarriersRecorded++
}

// MetricsFrameReset closes out the per-frame window. Called from the
// descriptor pool when a frame slot is recycled.
func MetricsFrameReset() {
	if metricsState == nil {
		return
	}
	metricsState.FrameResets++
	metricsState.PerFrame.SetsAllocated = 0
	metricsState.PerFrame.WritesBatched = 0
	metricsState.PerFrame.BarriersRecorded = 0
}

func MetricsSnapshot() MetricsState {
	if metricsState == nil {
		return MetricsState{}
	}
	return *metricsState
}
