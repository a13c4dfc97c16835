package testlib

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/onsi/gomega"
)

func PrepareEchoContext(request *http.Request, response http.ResponseWriter) echo.Context {
	e := echo.New()
	return e.NewContext(request, response)
}

func MultipartUpload(target string, fieldName string, fileName string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part := ExpectSuccess(writer.CreateFormFile(fieldName, fileName))
	ExpectSuccess(part.Write(content))
	gomega.ExpectWithOffset(1, writer.Close()).To(gomega.Succeed())

	request := httptest.NewRequest(http.MethodPost, target, body)
	request.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return request
}

func FormPost(target string, values url.Values) *http.Request {
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return request
}
