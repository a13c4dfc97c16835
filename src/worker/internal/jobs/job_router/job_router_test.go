package job_router_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/testing/dummy"
	"github.com/veedubyou/instrumental-be/src/worker/internal/jobs/job_router"
	"github.com/veedubyou/instrumental-be/src/worker/internal/worker"
	"github.com/veedubyou/instrumental-be/src/worker/internal/worker/workerfakes"
)

var _ = Describe("JobRouter", func() {
	var (
		extractHandler *workerfakes.FakeMessageHandler
		router         job_router.JobRouter
	)

	BeforeEach(func() {
		extractHandler = &workerfakes.FakeMessageHandler{}
		router = job_router.NewJobRouter(map[string]worker.MessageHandler{
			"extract_url": extractHandler,
		})
	})

	It("routes by message type", func() {
		err := router.HandleMessage(context.Background(), amqp091.Delivery{Type: "extract_url"})
		Expect(err).NotTo(HaveOccurred())
		Expect(extractHandler.HandleMessageCallCount()).To(Equal(1))
	})

	It("passes the handler's error through", func() {
		extractHandler.HandleMessageReturns(dummy.NotFound)
		err := router.HandleMessage(context.Background(), amqp091.Delivery{Type: "extract_url"})
		Expect(err).To(MatchError(dummy.NotFound))
	})

	It("rejects unknown message types", func() {
		err := router.HandleMessage(context.Background(), amqp091.Delivery{Type: "split_track"})
		Expect(err).To(HaveOccurred())
		Expect(extractHandler.HandleMessageCallCount()).To(BeZero())
	})
})
