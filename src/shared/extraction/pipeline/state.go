package pipeline

type State string

const (
	Idle                State = "idle"
	Loaded              State = "loaded"
	ResampledToModel    State = "resampled_to_model"
	Separated           State = "separated"
	Mixed               State = "mixed"
	Normalized          State = "normalized"
	ResampledToOriginal State = "resampled_to_original"
	Written             State = "written"
	Done                State = "done"
	Failed              State = "failed"
)

// Happy lists the states of a successful extraction, in order
var Happy = []State{
	Idle,
	Loaded,
	ResampledToModel,
	Separated,
	Mixed,
	Normalized,
	ResampledToOriginal,
	Written,
	Done,
}

type Warning string

const (
	// SilentMixWarning means the non vocal mix had no signal at all, the output is silence
	SilentMixWarning Warning = "silent_mix"
	// SmallOutputWarning means the written file is smaller than expected and may be corrupt
	SmallOutputWarning Warning = "small_output"
)
