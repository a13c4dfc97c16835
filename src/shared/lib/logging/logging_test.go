package logging_test

import (
	"bytes"

	"github.com/apex/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/shared/lib/env"
	"github.com/veedubyou/instrumental-be/src/shared/lib/logging"
	. "github.com/veedubyou/instrumental-be/src/shared/testing"
)

var _ = Describe("SetupTo", func() {
	var output *bytes.Buffer

	BeforeEach(func() {
		output = &bytes.Buffer{}
		DeferCleanup(func() {
			logging.SetupTo(GinkgoWriter, env.Test)
		})
	})

	It("writes JSON in production", func() {
		logging.SetupTo(output, env.Production)
		log.WithField("job_id", "job-1").Info("Extraction job succeeded")

		entry := DecodeJSON[map[string]interface{}](output)
		Expect(entry["message"]).To(Equal("Extraction job succeeded"))
		Expect(entry["fields"]).To(HaveKeyWithValue("job_id", "job-1"))
	})

	It("hides debug entries in production", func() {
		logging.SetupTo(output, env.Production)
		log.Debug("Worker slot acquired")

		Expect(output.Len()).To(BeZero())
	})

	It("shows debug entries in development", func() {
		logging.SetupTo(output, env.Development)
		log.Debug("Worker slot acquired")

		Expect(output.String()).To(ContainSubstring("Worker slot acquired"))
	})

	It("rejects unknown environments", func() {
		Expect(func() { logging.SetupTo(output, env.Environment("staging")) }).To(Panic())
	})
})
