// Package form holds the validate-then-submit view models: the shared
// add/edit product form, sign-in and sign-up.
package form

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/preview"
)

var (
	ErrInvalid    = errors.New("form has invalid fields")
	ErrInFlight   = errors.New("submission already in flight")
	ErrSuperseded = errors.New("image read superseded")
)

const (
	FieldName         = "name"
	FieldPrice        = "price"
	FieldImage        = "image"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldProfileImage = "profile_image"
)

const (
	msgGeneric = "Something went wrong. Please try again."

	minPasswordLen = 8
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func positiveNumber(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return false
	}
	return v > 0
}

func validateCredentials(email, password string, errs domain.FieldErrors) {
	switch {
	case blank(email):
		errs.Set(FieldEmail, "Email is required")
	case !emailRe.MatchString(email):
		errs.Set(FieldEmail, "Please enter a valid email")
	}

	switch {
	case blank(password):
		errs.Set(FieldPassword, "Password is required")
	// Length counts code points, not UTF-16 units.
	case len([]rune(password)) < minPasswordLen:
		errs.Set(FieldPassword, "Password must be at least 8 characters")
	}
}

func imageReadMessage(err error) string {
	switch {
	case errors.Is(err, preview.ErrNotImage):
		return "Only image files are allowed"
	case errors.Is(err, preview.ErrTooLarge):
		return "Image must be up to 10MB"
	}
	return "Failed to read image"
}

// An imageLoader runs one image read at a time per form. A newer read or a
// removal supersedes the one in flight, whose result is then dropped.
type imageLoader struct {
	gen uint64
}

// supersede must be called with the form lock held.
func (l *imageLoader) supersede() {
	l.gen++
}

// load must be called without the form lock held. apply runs under mu and
// only for the latest read.
func (l *imageLoader) load(
	ctx context.Context,
	mu *sync.Mutex,
	b domain.Blob,
	apply func(preview.Outcome),
) <-chan error {
	mu.Lock()
	l.supersede()
	gen := l.gen
	mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		out := <-preview.Async(ctx, b)

		mu.Lock()
		latest := l.gen == gen
		if latest {
			apply(out)
		}
		mu.Unlock()

		if !latest {
			done <- ErrSuperseded
			return
		}
		done <- out.Err
	}()
	return done
}
