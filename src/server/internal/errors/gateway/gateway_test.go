package gateway_test

import (
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/server/internal/errors/api"
	"github.com/veedubyou/instrumental-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/instrumental-be/src/server/internal/extraction/errors"
	"github.com/veedubyou/instrumental-be/src/shared/config/envvar"
	"github.com/veedubyou/instrumental-be/src/shared/lib/env"
	. "github.com/veedubyou/instrumental-be/src/shared/testing"
)

var _ = Describe("Gateway errors", func() {
	It("maps every error code to a status", func() {
		for _, code := range allErrorCodes {
			_, ok := gateway.StatusCode(code)
			Expect(ok).To(BeTrue(), "error code %s has no status", code)
		}
	})

	It("renders the error as JSON", func() {
		recorder := httptest.NewRecorder()
		c := PrepareEchoContext(httptest.NewRequest(http.MethodPost, "/extract-from-youtube/", nil), recorder)

		apiErr := api.CommitError(errors.New("yt-dlp exited with 1"), extractionerrors.DownloadFailedCode, "Couldn't download that link")
		Expect(gateway.ErrorResponse(c, apiErr)).To(Succeed())

		Expect(recorder.Code).To(Equal(http.StatusBadGateway))
		body := DecodeJSONError(recorder.Body)
		Expect(body.Code).To(Equal(string(extractionerrors.DownloadFailedCode)))
		Expect(body.Msg).To(Equal("Couldn't download that link"))
		Expect(body.ErrorDetails).To(ContainSubstring("yt-dlp exited with 1"))
	})

	It("leaves the details out in production", func() {
		Expect(os.Setenv(envvar.ENVIRONMENT, string(env.Production))).To(Succeed())
		DeferCleanup(os.Setenv, envvar.ENVIRONMENT, string(env.Test))

		recorder := httptest.NewRecorder()
		c := PrepareEchoContext(httptest.NewRequest(http.MethodPost, "/extract-instrumental/", nil), recorder)

		apiErr := api.CommitError(errors.New("demucs exited with 1"), extractionerrors.SeparationFailedCode, "Separation failed")
		Expect(gateway.ErrorResponse(c, apiErr)).To(Succeed())

		Expect(recorder.Code).To(Equal(http.StatusInternalServerError))
		Expect(recorder.Body.String()).NotTo(ContainSubstring("demucs exited"))
		Expect(DecodeJSONError(recorder.Body).Code).To(Equal(string(extractionerrors.SeparationFailedCode)))
	})

	It("panics on an unmapped code", func() {
		recorder := httptest.NewRecorder()
		c := PrepareEchoContext(httptest.NewRequest(http.MethodGet, "/", nil), recorder)

		apiErr := api.CommitError(errors.New("oops"), api.ErrorCode("not_a_real_code"), "")
		Expect(func() { _ = gateway.ErrorResponse(c, apiErr) }).To(Panic())
	})
})
