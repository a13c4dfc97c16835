package local

import (
	"path"
	"runtime"
	"strings"
)

const thisFile = "/src/shared/config/local/project_root.go"

func ProjectRoot() string {
	_, filePath, _, ok := runtime.Caller(0)

	if !ok {
		panic("Failed to call runtime.Caller")
	}

	if !strings.HasSuffix(filePath, thisFile) {
		panic("project_root.go has moved, update the expected location")
	}

	return strings.TrimSuffix(filePath, thisFile)
}

func WorkingDir() string {
	return path.Join(ProjectRoot(), "wd")
}
