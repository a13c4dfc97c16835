package pipeline

import (
	"context"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

// run tracks one Extract call
type run struct {
	job      Job
	logger   *log.Entry
	states   []State
	warnings []Warning
}

func newRun(job Job) *run {
	return &run{
		job: job,
		logger: log.WithFields(log.Fields{
			"job_id":     job.ID,
			"input_path": job.InputPath,
		}),
		states: []State{Idle},
	}
}

func (r *run) transition(state State) {
	r.states = append(r.states, state)
	r.logger.WithField("state", state).Debug("Extraction advanced")
}

func (r *run) warn(warning Warning, msg string) {
	r.warnings = append(r.warnings, warning)
	r.logger.WithField("warning", warning).Warn(msg)
}

func (r *run) checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return cerr.Wrap(err).Error("Extraction was abandoned")
	}

	return nil
}

// fail records the stage that was being attempted and logs the fault with the job's context
func (r *run) fail(stage State, err error) (Result, error) {
	r.states = append(r.states, Failed)

	err = cerr.Fields(cerr.F{
		"job_id":     r.job.ID,
		"stage":      stage,
		"input_path": r.job.InputPath,
	}).Wrap(classify(err)).Error("Extraction failed")
	cerr.Log(err)

	return Result{States: r.states}, err
}
