package resample

import "math"

const (
	lowpassFilterWidth = 6
	rolloff            = 0.99

	// above this many phases the taps are computed per output sample instead of cached
	maxCachedPhases = 4096
)

type tap struct {
	offset int
	weight float64
}

// sincFilter is a polyphase Hann-windowed sinc interpolator.
// Rates are reduced by their GCD so that output sample j = k*to + phase
// reads input samples around k*from.
type sincFilter struct {
	from     int
	to       int
	baseFreq float64
	width    int
	phases   [][]tap
}

func newSincFilter(sourceRate int, targetRate int) sincFilter {
	divisor := gcd(sourceRate, targetRate)
	from := sourceRate / divisor
	to := targetRate / divisor

	baseFreq := float64(min(from, to)) * rolloff
	width := int(math.Ceil(lowpassFilterWidth * float64(from) / baseFreq))

	filter := sincFilter{
		from:     from,
		to:       to,
		baseFreq: baseFreq,
		width:    width,
	}

	if to <= maxCachedPhases {
		filter.phases = make([][]tap, to)
		for phase := range filter.phases {
			filter.phases[phase] = filter.computeTaps(phase)
		}
	}

	return filter
}

func (s sincFilter) taps(phase int) []tap {
	if s.phases != nil {
		return s.phases[phase]
	}

	return s.computeTaps(phase)
}

func (s sincFilter) computeTaps(phase int) []tap {
	from := float64(s.from)
	center := from * float64(phase) / float64(s.to)
	radius := from * lowpassFilterWidth / s.baseFreq
	scale := s.baseFreq / from

	lo := max(int(math.Ceil(center-radius)), -s.width)
	hi := min(int(math.Floor(center+radius)), s.from+s.width-1)

	taps := make([]tap, 0, hi-lo+1)
	for offset := lo; offset <= hi; offset++ {
		t := (float64(offset)/from - float64(phase)/float64(s.to)) * s.baseFreq
		if t < -lowpassFilterWidth || t > lowpassFilterWidth {
			continue
		}

		window := math.Cos(t * math.Pi / lowpassFilterWidth / 2)
		window *= window

		sinc := 1.0
		if t != 0 {
			sinc = math.Sin(t*math.Pi) / (t * math.Pi)
		}

		taps = append(taps, tap{
			offset: offset,
			weight: sinc * window * scale,
		})
	}

	return taps
}

func (s sincFilter) apply(input []float32, outputLength int) []float32 {
	output := make([]float32, outputLength)

	for j := range output {
		block := j / s.to
		phase := j % s.to
		start := block * s.from

		acc := 0.0
		for _, tap := range s.taps(phase) {
			index := start + tap.offset
			// samples beyond either end are zero padding
			if index < 0 || index >= len(input) {
				continue
			}
			acc += float64(input[index]) * tap.weight
		}

		output[j] = float32(acc)
	}

	return output
}

func gcd(a int, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
