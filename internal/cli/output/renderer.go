// Package output renders command results for terminals, pipes, and tools.
//
// Every command writes through a Renderer. In auto mode a terminal gets
// styled text and anything else gets plain markdown, so output stays
// readable when piped into files or other programs. JSON mode is for tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// ParseMode validates a mode name. The empty name is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want auto, text, markdown, or json)", s)
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}

	lr := lipgloss.NewRenderer(out)
	switch {
	case !r.colored():
		lr.SetColorProfile(termenv.Ascii)
	case lr.ColorProfile() == termenv.Ascii:
		// forced TTY on a non-terminal writer
		lr.SetColorProfile(termenv.ANSI256)
	}
	r.styles = NewStyles(lr)
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colored reports whether styles emit ANSI sequences.
func (r *Renderer) colored() bool {
	return r.isTTY && r.EffectiveMode() == ModeText && !termenv.EnvNoColor()
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Styles returns the renderer's styles. They render plain text unless
// output is styled.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// status writes a status message. In JSON mode messages go to the error
// writer so standard output stays parseable.
func (r *Renderer) status(msg string) {
	w := r.out
	if r.EffectiveMode() == ModeJSON {
		w = r.errOut
	}
	_, _ = fmt.Fprintln(w, msg)
}

// Success prints a success message.
func (r *Renderer) Success(msg string) {
	r.status(r.styles.StatusSuccess.Render("✓") + " " + msg)
}

// Warning prints a warning to the error writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning:")+" "+msg)
}

// Error prints an error to the error writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("error:")+" "+msg)
}

// Muted prints secondary information.
func (r *Renderer) Muted(msg string) {
	r.status(r.styles.Muted.Render(msg))
}

// Header prints a level 1 or 2 header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() != ModeText {
		r.status(FormatHeader(level, text) + "\n")
		return
	}
	style := r.styles.Header2
	if level <= 1 {
		style = r.styles.Header1
	}
	r.status(style.Render(text))
}

// StatusLine prints a name with a status marker and optional detail.
// Status is "success", "failed", or "skipped".
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success":
		marker = r.styles.StatusSuccess.Render("✓")
	case "failed":
		marker = r.styles.StatusFailed.Render("✗")
	default:
		marker = r.styles.Muted.Render("-")
	}
	line := marker + " " + name
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	if r.EffectiveMode() == ModeMarkdown {
		line = "- " + line
	}
	r.status(line)
}
