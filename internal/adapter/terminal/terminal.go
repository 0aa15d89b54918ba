// Package terminal renders the admin views on a text terminal and reads
// the answers to prompts.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/internal/core/view"
)

var _ port.Notifier = (*Terminal)(nil)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4880FF"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4880FF"))
	sidebarStyle = lipgloss.NewStyle().Faint(true)
)

type Terminal struct {
	out io.Writer
	in  *bufio.Reader
}

func New(out io.Writer, in io.Reader) *Terminal {
	return &Terminal{out: out, in: bufio.NewReader(in)}
}

func (t *Terminal) println(s string) {
	if _, err := fmt.Fprintln(t.out, s); err != nil {
		slog.Warn("failed to write", "op", "Terminal.println", "err", err)
	}
}

// Alert prints msg as a highlighted line.
func (t *Terminal) Alert(msg string) {
	t.println(bannerStyle.Render("! " + msg))
}

func (t *Terminal) Info(msg string) {
	t.println(accentStyle.Render(msg))
}

// Ask shows the prompt, reads one line and resolves the prompt with it.
// Anything but y/yes declines, end of input included.
func (t *Terminal) Ask(ctx context.Context, p *view.Prompt) bool {
	if _, err := fmt.Fprintf(t.out, "%s [y/N]: ", titleStyle.Render(p.Text())); err != nil {
		slog.Warn("failed to write", "op", "Terminal.Ask", "err", err)
	}

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		slog.Debug("no answer", "op", "Terminal.Ask", "err", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	yes := answer == "y" || answer == "yes"
	p.Resolve(ctx, yes)
	return yes
}

func (t *Terminal) Header(h view.Header) {
	who := mutedStyle.Render("not signed in")
	if h.User.UserName != "" || h.User.FullName() != "" {
		who = fmt.Sprintf("%s %s",
			h.User.FullName(), mutedStyle.Render("@"+h.User.UserName))
	}
	t.println(headerStyle.Render(h.Section) + "  " + who)
}

func (t *Terminal) Sidebar(s *view.Sidebar) {
	t.println(sidebarStyle.Render("[" + s.Tab() + "]  " + s.LogoutLabel()))
	if msg := s.Message(); msg != "" {
		t.println(errorStyle.Render(msg))
	}
}

func (t *Terminal) Spinner(what string) {
	t.println(mutedStyle.Render("… loading " + what))
}
