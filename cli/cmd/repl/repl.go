package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ipl/lang"
	"github.com/ardnew/ipl/log"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List defined names
  edit     Write a program in $EDITOR and run it
  clear    Clear screen
  quit     Exit

Usage:
  Type a statement or expression; the value of an expression is printed
  A line opening a block (if, while, def, ...) continues until an empty line
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// execDoneMsg reports the end of an evaluation or edit.
type execDoneMsg struct{ err error }

// model is the Bubble Tea model of the interactive session.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	session    *session
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTabText string
	preTabPos  int
	lastEdit   string
	width      int
	quitting   bool
	mode       inputMode
	evalText   string
	evalCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts the interactive session on the terminal. History is kept in
// cacheDir.
func Run(
	ctx context.Context,
	interp *lang.Interpreter,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
	)

	m := newModel(ctx, newSession(interp, logger), history, logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s *session, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil

	case execDoneMsg:
		switch {
		case errors.Is(msg.err, lang.ErrQuit):
			m.quitting = true

			return m, tea.Quit
		case errors.Is(msg.err, ErrEditDeclined):
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		case msg.err != nil:
			return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case strings.TrimSpace(input) == "" && m.mode == modeCtrl:
		b.WriteString(hintStyle.Render("Type: help, list, edit, clear, quit (press Esc to return)"))

	case strings.TrimSpace(input) == "" && m.session.pending():
		b.WriteString(hintStyle.Render("Enter an empty line to run the block"))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a statement or press Esc for commands"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case call.inCall && m.mode == modeEval:
		if sig, params, ok := m.session.interp.Signature(call.name); ok {
			name, _, _ := strings.Cut(sig, "(")
			b.WriteString(renderSignatureHint(name, params, call.argIndex))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && !m.session.pending() {
			m.quitting = true

			return m, tea.Quit
		}

		m.session.block = nil
		m.setPrompt()
		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabPos)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil
	}

	autoConfirm := msg.Type == tea.KeyRunes
	if autoConfirm && m.tabActive && msg.String() == " " {
		m.tabActive = false
	}

	if !autoConfirm {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, autoConfirm)

	return m, cmd
}

// cycle moves the tab selection by step, completing the word under the
// cursor. A sole candidate is accepted at once.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabPos = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the word under completion with text.
func replaceCurrentWord(m *model, text string) {
	input := m.input.Value()
	cursor := m.wordStart + len(text)

	m.input.SetValue(input[:m.wordStart] + text + input[m.wordEnd:])
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

// refreshMatches recomputes completions. With autoConfirm, a sole candidate
// equal to the typed word is accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
		m.suggIdx = -1
		m.tabActive = false
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	text := strings.TrimSpace(raw)

	m.input.SetValue("")
	m.matches = nil

	if m.mode == modeCtrl {
		m.ctrlText, m.ctrlCursor = "", 0
		if text == "" {
			return m, nil
		}

		_ = m.history.Add(text, modeCtrl)
		m.historyIdx = m.history.Len()

		return m.executeCommand(text)
	}

	m.evalText, m.evalCursor = "", 0

	prompt := evalPrompt
	if m.session.pending() {
		prompt = contPrompt
	}

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(raw))

	if text == "" && !m.session.pending() {
		return m, nil
	}

	_ = m.history.Add(strings.TrimRight(raw, " \t"), modeEval)
	m.historyIdx = m.history.Len()

	src, ready := m.session.feed(raw)
	m.setPrompt()

	if !ready {
		m.input.SetValue(m.session.indent())
		m.input.CursorEnd()

		return m, echo
	}

	m.lastEdit = src + "\n"

	cmd := &evalCommand{session: m.session, ctxFunc: m.ctxFunc, src: src}

	return m, tea.Sequence(echo, tea.Exec(cmd, func(err error) tea.Msg {
		return execDoneMsg{err: err}
	}))
}

// setPrompt shows the continuation prompt while a block is pending.
func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case m.session.pending():
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

func (m model) executeCommand(text string) (model, tea.Cmd) {
	fields := strings.Fields(text)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(text))

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", fields[0]))

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Printf("%s", helpMessage))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listNames()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		cmd := &editCommand{session: m.session, ctxFunc: m.ctxFunc, content: m.lastEdit}

		return m, tea.Sequence(echo, tea.Exec(cmd, func(err error) tea.Msg {
			return execDoneMsg{err: err}
		}))

	default:
		return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try 'help')"))
	}
}

// listNames describes every name defined in the session.
func (m model) listNames() string {
	var (
		b      strings.Builder
		interp = m.session.interp
		ctx    = m.ctxFunc()
	)

	for _, name := range interp.Names() {
		var desc string

		switch {
		case interp.Lookup(name, false) == lang.NameVariable:
			v, err := interp.Eval(ctx, name)
			if err != nil {
				continue
			}

			desc = v.Kind().String() + " " + preview(v.String())

		case interp.Lookup(name, false) == lang.NameLibrary:
			desc = "library"

		case interp.Lookup(name, true) == lang.NameConstructor:
			sig, _, _ := interp.Signature(name)
			desc = "class " + sig

		case interp.Lookup(name, true) == lang.NameFunction:
			sig, _, _ := interp.Signature(name)
			desc = "function " + sig

		default:
			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(desc))
	}

	return strings.TrimRight(b.String(), "\n")
}

// preview shortens s for display.
func preview(s string) string {
	const limit = 40

	if r := []rune(s); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}

	return s
}

// historyStep moves through history by step. With sameMode, entries of the
// other mode are skipped; otherwise the mode follows the entry.
func (m model) historyStep(step int, sameMode bool) model {
	for k := m.historyIdx + step; k >= 0 && k < m.history.Len(); k += step {
		entry, err := m.history.Entry(k)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = k
		m.input.SetValue(entry.Line)
		m.input.CursorEnd()
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode changes the input mode, keeping each mode's unsent input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.setPrompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}

// evalCommand implements [tea.ExecCommand]. It runs with the terminal
// released so that programs can use standard input and output.
type evalCommand struct {
	session *session
	ctxFunc func() context.Context
	src     string
	stdout  io.Writer
}

func (c *evalCommand) SetStdin(io.Reader)    {}
func (c *evalCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *evalCommand) SetStderr(io.Writer)   {}

func (c *evalCommand) Run() error {
	v, show, err := c.session.execute(c.ctxFunc(), c.src)
	if err != nil {
		return err
	}

	if show {
		_, err = fmt.Fprintln(c.stdout, resultStyle.Render(v.String()))
	}

	return err
}
