package view

import (
	"context"
	"sync"
)

// A Prompt is a yes/no question. Resolve runs exactly one of the two
// actions, and only the first time it is called.
type Prompt struct {
	text    string
	confirm func(context.Context)
	dismiss func()
	once    sync.Once
}

func NewPrompt(text string, confirm func(context.Context), dismiss func()) *Prompt {
	if confirm == nil || dismiss == nil {
		panic("NewPrompt: nil action") // develop mistake
	}
	return &Prompt{text: text, confirm: confirm, dismiss: dismiss}
}

func (p *Prompt) Text() string {
	return p.text
}

func (p *Prompt) Resolve(ctx context.Context, yes bool) {
	p.once.Do(func() {
		if yes {
			p.confirm(ctx)
			return
		}
		p.dismiss()
	})
}
