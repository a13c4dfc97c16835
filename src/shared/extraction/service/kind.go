package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"

	"github.com/veedubyou/instrumental-be/src/shared/audio/mix"
	"github.com/veedubyou/instrumental-be/src/shared/audio/resample"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
	"github.com/veedubyou/instrumental-be/src/shared/download"
)

// Kind names the class of an extraction failure
type Kind string

const (
	InvalidURLKind      Kind = "invalid_url"
	DownloadKind        Kind = "download_failure"
	UnreadableAudioKind Kind = "unreadable_audio"
	InvalidRateKind     Kind = "invalid_rate"
	SeparationKind      Kind = "separation_failure"
	MisalignedStemsKind Kind = "misaligned_stems"
	WriteFailureKind    Kind = "write_failure"
	CancelledKind       Kind = "cancelled"
	PipelineKind        Kind = "pipeline_failure"
)

// most specific first, a download of an invalid URL is an invalid URL
var kindsByMark = []struct {
	mark error
	kind Kind
}{
	{download.InvalidURLMark, InvalidURLKind},
	{download.DownloadMark, DownloadKind},
	{wavfile.UnreadableAudioMark, UnreadableAudioKind},
	{resample.InvalidRateMark, InvalidRateKind},
	{separate.SeparationMark, SeparationKind},
	{mix.MisalignedStemsMark, MisalignedStemsKind},
	{wavfile.WriteFailureMark, WriteFailureKind},
}

func KindOf(err error) Kind {
	for _, entry := range kindsByMark {
		if markers.Is(err, entry.mark) {
			return entry.kind
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CancelledKind
	}

	return PipelineKind
}
