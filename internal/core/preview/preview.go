// Package preview turns a chosen image file into an upload blob and a
// displayable data URL.
package preview

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

const MaxSize = 10 << 20

const svgType = "image/svg+xml"

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image exceeds 10MB")
)

type Result struct {
	Image   domain.Image
	DataURL string
}

// Load reads the whole blob. It is meant to be run off the caller's
// goroutine, see [Async].
func Load(ctx context.Context, b domain.Blob) (Result, error) {
	const op = "preview.Load"

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	rc, err := b.Open()
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxSize+1))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) > MaxSize {
		return Result{}, fmt.Errorf("%s: %w", op, ErrTooLarge)
	}

	ct := sniff(b.Name(), data)
	if !strings.HasPrefix(ct, "image/") {
		return Result{}, fmt.Errorf("%s: %q: %w", op, ct, ErrNotImage)
	}

	return Result{
		Image: domain.Image{
			Name:        b.Name(),
			ContentType: ct,
			Data:        data,
		},
		DataURL: DataURL(ct, data),
	}, nil
}

// sniff trusts the content first. SVG is plain XML to the sniffer, so a
// textual body takes the type of its extension when that names SVG.
func sniff(name string, data []byte) string {
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "text/xml") && !strings.HasPrefix(ct, "text/plain") {
		return ct
	}
	if byExt := mime.TypeByExtension(filepath.Ext(name)); strings.HasPrefix(byExt, svgType) {
		return svgType
	}
	return ct
}

func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," +
		base64.StdEncoding.EncodeToString(data)
}

type Outcome struct {
	Result Result
	Err    error
}

// Async runs Load in its own goroutine. The channel receives exactly one
// outcome and is then closed.
func Async(ctx context.Context, b domain.Blob) <-chan Outcome {
	c := make(chan Outcome, 1)
	go func() {
		defer close(c)
		res, err := Load(ctx, b)
		c <- Outcome{res, err}
	}()
	return c
}
