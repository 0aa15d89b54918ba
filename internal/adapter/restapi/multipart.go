package restapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// A formData collects multipart fields; the first error sticks.
type formData struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newFormData() *formData {
	fd := new(formData)
	fd.w = multipart.NewWriter(&fd.buf)
	return fd
}

func (fd *formData) field(name, value string) {
	if fd.err != nil {
		return
	}
	fd.err = fd.w.WriteField(name, value)
}

// file appends img under name. A nil image is skipped.
func (fd *formData) file(name string, img *domain.Image) {
	if fd.err != nil || img == nil {
		return
	}

	ct := img.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(img.Name),
	))
	h.Set("Content-Type", ct)

	part, err := fd.w.CreatePart(h)
	if err != nil {
		fd.err = err
		return
	}
	_, fd.err = part.Write(img.Data)
}

func (fd *formData) finish() (io.Reader, string, error) {
	if fd.err != nil {
		return nil, "", fd.err
	}
	if err := fd.w.Close(); err != nil {
		return nil, "", err
	}
	return &fd.buf, fd.w.FormDataContentType(), nil
}
