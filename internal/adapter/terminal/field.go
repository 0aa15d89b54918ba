package terminal

import (
	"strings"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindEmail
	KindPassword
	KindFile
)

// A Field is a labeled input with its inline error. It holds no state.
type Field struct {
	Label string
	Kind  FieldKind
	Value string
	Error string
}

func (f Field) Render() string {
	v := f.Value
	switch f.Kind {
	case KindPassword:
		v = strings.Repeat("•", len([]rune(v)))
	case KindFile:
		if v == "" {
			v = "(no file)"
		}
	}
	if v == "" {
		v = mutedStyle.Render(f.Label)
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(f.Label + ":"))
	b.WriteString(" ")
	b.WriteString(v)
	if f.Error != "" {
		b.WriteString("\n  ")
		b.WriteString(errorStyle.Render(f.Error))
	}
	return b.String()
}

func (t *Terminal) Fields(fs ...Field) {
	for _, f := range fs {
		t.println(f.Render())
	}
}

func (t *Terminal) Banner(errs domain.FieldErrors) {
	if msg := errs.Get(domain.FormField); msg != "" {
		t.println(bannerStyle.Render(msg))
	}
}
