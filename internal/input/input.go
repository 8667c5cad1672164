// Package input reads lines of player input for the console client.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is shown before each line read by an InteractiveReader.
const DefaultPrompt = "> "

// DirectReader implements command.Reader on any io.Reader. It does not
// sanitize control and escape sequences out of the input, so it is meant for
// piped input and tests.
//
// Create one with NewDirectReader.
type DirectReader struct {
	r *bufio.Reader
}

// InteractiveReader implements command.Reader on stdin using readline. This
// keeps input clear of typing and editing escape sequences and gives the
// player command history. It should only be used when stdin is a TTY.
//
// Create one with NewInteractiveReader.
type InteractiveReader struct {
	rl     *readline.Instance
	prompt string
}

// NewDirectReader creates a DirectReader that buffers r.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader initializes readline and creates an InteractiveReader
// on it. If historyFile is not empty, lines are saved to and loaded from it.
// Close must be called on the returned reader to tear readline down.
func NewInteractiveReader(historyFile string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          DefaultPrompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{
		rl:     rl,
		prompt: DefaultPrompt,
	}, nil
}

// Close does nothing; DirectReader holds no resources of its own.
func (dr *DirectReader) Close() error {
	return nil
}

// Close tears down readline.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}

// ReadCommand reads the next line that contains something other than
// whitespace and returns it trimmed. At the end of input it returns "" and
// io.EOF; a final line with no newline is returned before that.
func (dr *DirectReader) ReadCommand() (string, error) {
	return readNonBlank(func() (string, error) {
		return dr.r.ReadString('\n')
	})
}

// ReadCommand reads the next line that contains something other than
// whitespace and returns it trimmed. Ctrl-D gives "" and io.EOF, and Ctrl-C
// gives "" and readline.ErrInterrupt.
func (ir *InteractiveReader) ReadCommand() (string, error) {
	return readNonBlank(ir.rl.Readline)
}

// SetPrompt updates the prompt to the given text.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.prompt = p
	ir.rl.SetPrompt(p)
}

// Prompt gets the current prompt.
func (ir *InteractiveReader) Prompt() string {
	return ir.prompt
}

func readNonBlank(readLine func() (string, error)) (string, error) {
	for {
		line, err := readLine()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
	}
}
