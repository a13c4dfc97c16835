package logging

import (
	"io"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"

	"github.com/veedubyou/instrumental-be/src/shared/lib/env"
)

// Setup picks the apex handler for the server process
func Setup(environment env.Environment) {
	SetupTo(os.Stderr, environment)
}

func SetupTo(w io.Writer, environment env.Environment) {
	switch environment {
	case env.Production:
		log.SetHandler(json.New(w))
		log.SetLevel(log.InfoLevel)

	case env.Development:
		log.SetHandler(text.New(w))
		log.SetLevel(log.DebugLevel)

	case env.Test:
		log.SetHandler(text.New(w))
		log.SetLevel(log.WarnLevel)

	default:
		panic("Unrecognized environment")
	}
}

// SetupCLI is for commands run by a person at a terminal
func SetupCLI(verbose bool) {
	log.SetHandler(cli.New(os.Stderr))

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
