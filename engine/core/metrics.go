package core

const frameAvgCount = 30

// FrameMetrics keeps a rolling average of frame times for diagnostics.
type FrameMetrics struct {
	counter uint8
	msTimes [frameAvgCount]float64
	msAvg   float64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{}
}

// Update records one frame's elapsed time, in seconds.
func (m *FrameMetrics) Update(frameElapsed float64) {
	m.msTimes[m.counter] = frameElapsed * 1000.0
	if m.counter == frameAvgCount-1 {
		var sum float64
		for _, ms := range m.msTimes {
			sum += ms
		}
		m.msAvg = sum / frameAvgCount
	}
	m.counter = (m.counter + 1) % frameAvgCount
}

// AvgFrameMS reports the rolling average frame time in milliseconds.
// Zero until a full window of frames has been recorded.
func (m *FrameMetrics) AvgFrameMS() float64 {
	return m.msAvg
}

// AvgFPS reports the rolling average frame rate.
func (m *FrameMetrics) AvgFPS() float64 {
	if m.msAvg == 0 {
		return 0
	}
	return 1000.0 / m.msAvg
}
