// Package cli contains the command bodies behind the promptline binary:
// the interactive REPL session, config validation and schema export.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/promptline/promptline/internal/buffer"
	"github.com/promptline/promptline/internal/completion"
	"github.com/promptline/promptline/internal/config"
	"github.com/promptline/promptline/internal/editor"
	"github.com/promptline/promptline/internal/keys"
	"github.com/promptline/promptline/internal/logger"
	"github.com/promptline/promptline/internal/perrors"
	"github.com/promptline/promptline/internal/term"
)

// ReplParams configures an interactive session.
type ReplParams struct {
	ConfigPath string
	Prompt     string
	LogLevel   string
}

// Session wires the classifier, buffer, completion engine and renderer
// into one interactive prompt. It is transport-agnostic: Run drives it
// from stdin, tests drive it by feeding byte sequences directly.
type Session struct {
	cfg        *config.Config
	buf        *buffer.CommandBuffer
	engine     *completion.Engine
	dispatcher *editor.Dispatcher
	terminal   term.Terminal
	log        *logger.Logger

	done bool
}

// NewSession builds a session over the given terminal surface.
func NewSession(cfg *config.Config, terminal term.Terminal, log *logger.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	buf := buffer.New(buffer.Config{
		MaxHistorySize:  cfg.Input.MaxHistorySize,
		Prompt:          cfg.ExpandPrompt(),
		AllowDuplicates: cfg.Input.AllowDuplicates,
	}, log)

	engine := completion.NewEngine(cfg.Completion, log)
	engine.RegisterProvider(completion.NewCommandProvider())
	engine.RegisterProvider(completion.NewFileProvider())
	engine.RegisterProvider(completion.NewEnvProvider())
	engine.RegisterProvider(completion.NewHistoryProvider(buf.History()))

	manifests := completion.NewManifestProvider()
	for _, dir := range cfg.ManifestDirs {
		if err := manifests.LoadDir(dir); err != nil {
			log.Warn().Str("dir", dir).Err(err).Msg("skipping manifest directory")
		}
	}
	engine.RegisterProvider(manifests)

	s := &Session{
		cfg:        cfg,
		buf:        buf,
		engine:     engine,
		dispatcher: editor.NewDispatcher(buf, terminal, log),
		terminal:   terminal,
		log:        log,
	}
	buf.OnExecute(s.onExecute)
	return s
}

// Buffer exposes the command buffer, mainly for tests and host tooling.
func (s *Session) Buffer() *buffer.CommandBuffer {
	return s.buf
}

// Engine exposes the completion engine so hosts can register extra
// providers or listeners before Run.
func (s *Session) Engine() *completion.Engine {
	return s.engine
}

// Done reports whether the session has been asked to exit.
func (s *Session) Done() bool {
	return s.done
}

// Render draws the current prompt line. Called once before the input
// loop starts and after anything else wrote to the surface.
func (s *Session) Render() {
	s.dispatcher.Renderer().Render(s.buf.Prompt(), s.buf.Text(), s.buf.CursorPosition())
}

// HandleInput classifies one input sequence and routes it. Tab triggers
// completion here rather than in the dispatcher, since completion needs
// the engine and the menu needs the surface.
func (s *Session) HandleInput(seq []byte) {
	if len(seq) == 0 {
		return
	}
	if len(seq) == 1 && seq[0] == 0x04 && s.buf.Text() == "" {
		s.done = true
		return
	}

	ev := keys.Classify(seq)
	if !ev.ShouldHandle && seq[0] == 0x1b {
		err := perrors.NewClassifyError(seq, "unrecognized escape sequence")
		s.log.Debug().Err(err).Msg("input ignored")
		return
	}
	if ev.Type == keys.TypeTab {
		s.completeAtCursor()
		return
	}
	s.dispatcher.HandleKey(ev)
}

// completeAtCursor runs one completion round for the current buffer
// state. A single match or a useful common prefix is applied in place;
// anything else prints a menu below the prompt line.
func (s *Session) completeAtCursor() {
	generation := s.buf.Revision()
	result := s.engine.GetCompletions(context.Background(), completion.Request{
		Input:            s.buf.Text(),
		CursorPosition:   s.buf.CursorPosition(),
		WorkingDirectory: workingDir(),
		Environment:      environMap(),
		Generation:       generation,
	})

	// Providers are synchronous today, but the stale check keeps the
	// session correct if a host feeds input from another goroutine.
	if result.Generation != s.buf.Revision() {
		s.log.Debug().Msg("dropping stale completion result")
		return
	}

	switch {
	case len(result.Suggestions) == 0:
		return
	case len(result.Suggestions) == 1:
		s.apply(result.Suggestions[0])
	case result.CommonPrefix != "" && utf8.RuneCountInString(result.CommonPrefix) > utf8.RuneCountInString(result.Context.CurrentPart):
		s.apply(prefixSuggestion(result))
	default:
		s.showMenu(result)
	}
	s.Render()
}

// apply splices a suggestion into the buffer, preserving the cursor
// position the engine computed.
func (s *Session) apply(sg completion.Suggestion) {
	newText, newCursor := s.engine.ApplySuggestion(s.buf.Text(), sg, s.buf.CursorPosition())
	s.buf.SetCommand(newText)
	for i := utf8.RuneCountInString(newText); i > newCursor; i-- {
		s.buf.MoveCursorLeft()
	}
}

func (s *Session) showMenu(result completion.Result) {
	menu := RenderSuggestions(result, s.cfg.Completion.ShowDescriptions)
	if err := s.terminal.Write("\r\n" + menu); err != nil {
		s.log.Warn().Err(err).Msg("failed to print completion menu")
	}
	s.dispatcher.Renderer().Invalidate()
}

// onExecute handles the few session builtins; everything else is only
// recorded, since the prompt does not spawn processes.
func (s *Session) onExecute(command string) {
	switch command {
	case "exit":
		s.done = true
	case "history":
		s.write(RenderHistory(s.buf.History().Commands()))
	case "clear":
		if err := s.terminal.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("clear screen failed")
		}
		s.dispatcher.Renderer().Invalidate()
	default:
		s.write(moreStyle.Render("captured: "+command) + "\r\n")
		s.log.Info().Str("command", command).Msg("command captured")
	}
}

func (s *Session) write(text string) {
	if err := s.terminal.Write(text); err != nil {
		s.log.Warn().Err(err).Msg("write failed")
	}
	s.dispatcher.Renderer().Invalidate()
}

// Repl runs the interactive loop on the process tty until the user
// exits with the exit command or ctrl-d on an empty line.
func Repl(params ReplParams) error {
	log := logger.New(params.LogLevel, os.Stderr)

	cfg, err := loadConfig(params.ConfigPath, log)
	if err != nil {
		return err
	}
	if params.Prompt != "" {
		cfg.Input.Prompt = params.Prompt
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}
	raw, err := term.EnterRawMode(fd)
	if err != nil {
		return err
	}
	defer raw.Restore() //nolint:errcheck

	session := NewSession(cfg, term.NewANSITerminal(os.Stdout), log)
	session.Render()

	in := make([]byte, 64)
	for !session.Done() {
		n, err := os.Stdin.Read(in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if n == 0 {
			continue
		}
		session.HandleInput(in[:n])
	}

	if err := session.terminal.Write("\r\n"); err != nil {
		log.Warn().Err(err).Msg("final newline failed")
	}
	return nil
}

// loadConfig resolves and loads the session config. An explicit path
// that fails is an error; a discovered one that fails only warns.
// Discovery order: current directory, then XDG config home.
func loadConfig(path string, log *logger.Logger) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	for _, dir := range []string{workingDir(), xdgConfigDir()} {
		if dir == "" {
			continue
		}
		found := config.FindConfig(dir)
		if found == "" {
			continue
		}
		cfg, err := config.Load(found)
		if err != nil {
			log.Warn().Str("path", found).Err(err).Msg("ignoring unreadable config")
			return config.Default(), nil
		}
		log.Debug().Str("path", found).Msg("loaded config")
		return cfg, nil
	}
	return config.Default(), nil
}

func xdgConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "promptline")
}

func prefixSuggestion(result completion.Result) completion.Suggestion {
	cursor := result.Context.CursorPosition
	start := cursor - utf8.RuneCountInString(result.Context.CurrentPart)
	return completion.Suggestion{
		Text:  result.CommonPrefix,
		Range: &completion.Range{Start: start, End: cursor},
	}
}

func workingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
