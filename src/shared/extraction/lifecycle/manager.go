package lifecycle

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/working_dir"
)

// Manager hands out per job staging and output locations under one working dir
// and removes them once their jobs are finished.
//
// A job is protected from sweeping twice over: it is registered as in flight in
// this process, and it holds an exclusive file lock that other processes sharing
// the working dir (e.g. the CLI) respect.
type Manager struct {
	workingDir working_dir.WorkingDir

	lock     sync.Mutex
	inFlight map[string]*Job

	// lockCreated runs between creating a lock file and locking it
	lockCreated func(lockPath string)
}

func NewManager(workingDir working_dir.WorkingDir) *Manager {
	return &Manager{
		workingDir: workingDir,
		inFlight:   map[string]*Job{},
	}
}

func (m *Manager) WorkingDir() working_dir.WorkingDir {
	return m.workingDir
}

// Begin creates a new job with its own staging and output directories
func (m *Manager) Begin() (*Job, error) {
	// the lock has to be held before any directory exists, otherwise a sweep
	// could see the directories of a job that isn't locked yet
	id, fileLock, err := m.lockNewJob()
	if err != nil {
		return nil, err
	}

	errctx := cerr.Field("job_id", id)
	job := &Job{
		id:       id,
		manager:  m,
		fileLock: fileLock,
	}

	for _, dir := range []string{job.StageDir(), job.OutputDir()} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			job.release()
			_ = job.removeFiles()
			return nil, errctx.Field("dir", dir).Wrap(err).Error("Failed to create job directory")
		}
	}

	m.lock.Lock()
	m.inFlight[id] = job
	m.lock.Unlock()

	log.WithField("job_id", id).Debug("Job started")
	return job, nil
}

const maxLockAttempts = 3

func (m *Manager) lockNewJob() (string, *flock.Flock, error) {
	var err error
	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		id := uuid.NewString()

		var fileLock *flock.Flock
		fileLock, err = m.lockJob(id)
		if err == nil {
			return id, fileLock, nil
		}

		log.WithField("job_id", id).WithField("attempt", attempt).Debug("Retrying job lock")
	}

	return "", nil, err
}

// lockJob locks a fresh lock file for the job. A stale lock sweep can unlink the
// file between it being opened and locked, in which case the lock is held on a
// file nobody else can see, so the path is checked to still be the same file.
func (m *Manager) lockJob(id string) (*flock.Flock, error) {
	lockPath := m.lockPath(id)
	errctx := cerr.Field("job_id", id).Field("lock_path", lockPath)

	created, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDONLY, 0600)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to create job lock file")
	}

	createdInfo, err := created.Stat()
	_ = created.Close()
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to stat job lock file")
	}

	if m.lockCreated != nil {
		m.lockCreated(lockPath)
	}

	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to lock job")
	}
	if !locked {
		return nil, errctx.Error("Job lock is unexpectedly held")
	}

	currentInfo, err := os.Stat(lockPath)
	if err != nil || !os.SameFile(createdInfo, currentInfo) {
		_ = fileLock.Unlock()
		if err == nil {
			_ = os.Remove(lockPath)
		}
		return nil, errctx.Error("Job lock file was swept while locking")
	}

	return fileLock, nil
}

func (m *Manager) InFlight() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.inFlight)
}

func (m *Manager) isInFlight(id string) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	_, ok := m.inFlight[id]
	return ok
}

func (m *Manager) finish(id string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.inFlight, id)
}

func (m *Manager) stageDir(id string) string {
	return filepath.Join(m.workingDir.Scratch(), id)
}

func (m *Manager) outputDir(id string) string {
	return filepath.Join(m.workingDir.Output(), id)
}

func (m *Manager) lockPath(id string) string {
	return filepath.Join(m.workingDir.Locks(), id+".lock")
}

// Shutdown reclaims whatever is still in flight and sweeps everything else.
// Only call it once nothing can begin new jobs.
func (m *Manager) Shutdown() SweepResult {
	m.lock.Lock()
	jobs := make([]*Job, 0, len(m.inFlight))
	for _, job := range m.inFlight {
		jobs = append(jobs, job)
	}
	m.lock.Unlock()

	for _, job := range jobs {
		if err := job.Reclaim(); err != nil {
			cerr.Log(err)
		}
	}

	return m.Sweep()
}
