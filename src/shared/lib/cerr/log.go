package cerr

import (
	"github.com/apex/log"
)

func Log(err error) {
	LogEntry(log.Log, err)
}

func LogEntry(logger log.Interface, err error) {
	fields := AllFields(err)
	if len(fields) == 0 {
		logger.Error(err.Error())
		return
	}

	logger.WithFields(log.Fields(fields)).Error(err.Error())
}
