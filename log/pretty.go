package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// styles colors the parts of a pretty log line.
type styles struct {
	key    lipgloss.Style
	str    lipgloss.Style
	num    lipgloss.Style
	other  lipgloss.Style
	msg    lipgloss.Style
	level  map[slog.Level]lipgloss.Style
	source lipgloss.Style
}

// makeStyles builds styles for the color profile of w. Writers that are not
// terminals get no colors.
func makeStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	level := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}

	return styles{
		key:    r.NewStyle().Foreground(lipgloss.Color("8")),
		str:    r.NewStyle().Foreground(lipgloss.Color("6")),
		num:    r.NewStyle().Foreground(lipgloss.Color("3")),
		other:  r.NewStyle().Foreground(lipgloss.Color("5")),
		msg:    r.NewStyle().Bold(true),
		source: r.NewStyle().Faint(true),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): level("8"),
			slog.LevelDebug:        level("4"),
			slog.LevelInfo:         level("2"),
			slog.LevelWarn:         level("3"),
			slog.LevelError:        level("1"),
		},
	}
}

// prettyHandler writes one colorized "key=value" line per record.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	style      styles
	mu         *sync.Mutex
	w          io.Writer
	prefix     string // group path of subsequent attributes
	attrs      []byte // preformatted attributes from WithAttrs
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		style:      makeStyles(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.style.source.Render(ts))
			buf.WriteByte(' ')
		}
	}

	name := strings.ToUpper(Level(r.Level).String())
	if st, ok := h.style.level[r.Level]; ok {
		name = st.Render(name)
	}

	buf.WriteString(name)
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			buf.WriteString(h.style.source.Render(fmt.Sprintf("%s:%d", src.File, src.Line)))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.style.msg.Render(r.Message))
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(append([]byte(nil), h.attrs...))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// writeAttr appends " key=value", flattening groups into dotted keys.
func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}

		for _, g := range v.Group() {
			h.writeAttr(buf, p, g)
		}

		return
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.style.key.Render(prefix + a.Key))
	buf.WriteByte('=')

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(h.style.str.Render(v.String()))
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		buf.WriteString(h.style.num.Render(v.String()))
	default:
		buf.WriteString(h.style.other.Render(v.String()))
	}
}
