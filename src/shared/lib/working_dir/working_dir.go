package working_dir

import (
	"os"
	"path/filepath"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

// WorkingDir is the process-wide root for everything written to disk.
// Jobs stage their inputs under Scratch and materialize results under Output.
type WorkingDir struct {
	root string
}

func NewWorkingDir(root string) (WorkingDir, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return WorkingDir{}, cerr.Field("root", root).
			Wrap(err).Error("Failed to generate absolute path for working directory")
	}

	workingDir := WorkingDir{root: absRoot}

	for _, dir := range []string{workingDir.root, workingDir.TempDir(), workingDir.Scratch(), workingDir.Output(), workingDir.Locks()} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return WorkingDir{}, cerr.Field("dir", dir).
				Wrap(err).Error("Failed to create working directory")
		}
	}

	return workingDir, nil
}

func (w WorkingDir) Root() string {
	return w.root
}

func (w WorkingDir) TempDir() string {
	return filepath.Join(w.root, "tmp")
}

func (w WorkingDir) Scratch() string {
	return filepath.Join(w.root, "uploads")
}

func (w WorkingDir) Output() string {
	return filepath.Join(w.root, "outputs")
}

func (w WorkingDir) Locks() string {
	return filepath.Join(w.root, "locks")
}
