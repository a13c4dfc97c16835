package lifecycle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

type SweepError struct {
	Path string
	Err  error
}

type SweepResult struct {
	Removed []string
	Skipped []string
	Errors  []SweepError
}

func (r SweepResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Sweep removes the files of finished jobs. Jobs in flight here or locked by another
// process are left alone, so are entries the manager didn't create.
func (m *Manager) Sweep() SweepResult {
	result := SweepResult{}

	for _, id := range m.sweepCandidates(&result) {
		m.sweepJob(id, &result)
	}

	m.sweepStaleLocks(&result)

	if len(result.Removed) > 0 || result.HasErrors() {
		log.WithFields(log.Fields{
			"removed": len(result.Removed),
			"skipped": len(result.Skipped),
			"errors":  len(result.Errors),
		}).Info("Swept finished jobs")
	}

	return result
}

func (m *Manager) sweepCandidates(result *SweepResult) []string {
	seen := map[string]bool{}
	ids := []string{}

	for _, root := range []string{m.workingDir.Scratch(), m.workingDir.Output()} {
		entries, err := os.ReadDir(root)
		if err != nil {
			if !os.IsNotExist(err) {
				result.Errors = append(result.Errors, SweepError{Path: root, Err: err})
			}
			continue
		}

		for _, entry := range entries {
			id := entry.Name()
			if _, err := uuid.Parse(id); err != nil || seen[id] {
				continue
			}

			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids
}

func (m *Manager) sweepJob(id string, result *SweepResult) {
	if m.isInFlight(id) {
		result.Skipped = append(result.Skipped, id)
		return
	}

	lockPath := m.lockPath(id)
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		result.Errors = append(result.Errors, SweepError{Path: lockPath, Err: err})
		return
	}

	if !locked {
		result.Skipped = append(result.Skipped, id)
		return
	}

	defer func() {
		_ = fileLock.Unlock()
		_ = os.Remove(lockPath)
	}()

	removedAll := true
	for _, dir := range []string{m.stageDir(id), m.outputDir(id)} {
		if err := os.RemoveAll(dir); err != nil {
			removedAll = false
			result.Errors = append(result.Errors, SweepError{Path: dir, Err: err})
			cerr.Log(cerr.Field("job_id", id).Field("dir", dir).Wrap(err).Error("Failed to sweep job directory"))
		}
	}

	if removedAll {
		result.Removed = append(result.Removed, id)
	}
}

// lock files can outlive their job if the process died between unlocking and removing
func (m *Manager) sweepStaleLocks(result *SweepResult) {
	entries, err := os.ReadDir(m.workingDir.Locks())
	if err != nil {
		return
	}

	for _, entry := range entries {
		id := strings.TrimSuffix(entry.Name(), ".lock")
		if _, err := uuid.Parse(id); err != nil || m.isInFlight(id) {
			continue
		}

		if _, err := os.Stat(m.stageDir(id)); err == nil {
			continue
		}
		if _, err := os.Stat(m.outputDir(id)); err == nil {
			continue
		}

		lockPath := filepath.Join(m.workingDir.Locks(), entry.Name())
		fileLock := flock.New(lockPath)
		locked, err := fileLock.TryLock()
		if err != nil || !locked {
			continue
		}

		_ = fileLock.Unlock()
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, SweepError{Path: lockPath, Err: err})
		}
	}
}
