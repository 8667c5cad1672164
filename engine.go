// Package tunamud contains a CLI-driven engine that reads commands for one
// character from an input stream and prints the responses until the player
// quits.
package tunamud

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunamud/internal/annotate"
	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/game"
	"github.com/dekarrin/tunamud/internal/input"
	"github.com/dekarrin/tunamud/internal/verb"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/internal/world/inmem"
	"github.com/dekarrin/tunamud/internal/worldfile"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// QuitCommand ends a console session. It never reaches the interpreter.
const QuitCommand = "quit"

const consoleOutputWidth = 80

// GuestName is the name of the character created for the player when the
// world file defines no characters.
const GuestName = "wanderer"

// Options holds the settings for a new Engine.
type Options struct {
	// WorldFile is the path to the world or manifest file to load.
	WorldFile string

	// Character is the name of the character to play. It may be left empty
	// if the world defines at most one character.
	Character string

	// LexiconFile is an optional YAML file of extra words for the annotator.
	LexiconFile string

	// ForceDirect disables readline even when attached to a terminal.
	ForceDirect bool

	// Log receives diagnostic output. If nil, nothing is logged.
	Log *zap.Logger
}

// Engine contains the things needed to run a game from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	interp      *game.Interpreter
	world       world.Store
	caller      world.Character
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// New creates a new engine ready to operate on the given input and output
// streams. If nil is given for the input stream, stdin is used. If nil is
// given for the output stream, stdout is used.
func New(inputStream io.Reader, outputStream io.Writer, opts Options) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	ctx := context.Background()

	worldData, err := worldfile.Load(opts.WorldFile)
	if err != nil {
		return nil, err
	}

	store := inmem.NewStore()

	// nobody logs in over the console, so there is no sense paying for
	// strong hashes.
	pop, err := worldfile.Populate(ctx, store, worldData, bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	caller, err := pickCharacter(ctx, store, pop, opts.Character)
	if err != nil {
		return nil, err
	}

	var lex *annotate.Lexicon
	if opts.LexiconFile != "" {
		lex, err = annotate.LoadLexiconFile(opts.LexiconFile)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	} else {
		lex = annotate.NewLexicon()
	}

	reg, err := verb.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("register verbs: %w", err)
	}

	eng := &Engine{
		interp:      game.New(command.NewBuilder(lex, reg), store, log),
		world:       store,
		caller:      caller,
		out:         bufio.NewWriter(outputStream),
		forceDirect: opts.ForceDirect,
	}

	useReadline := !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		eng.in, err = input.NewInteractiveReader("")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

func pickCharacter(ctx context.Context, s world.Store, pop worldfile.Populated, name string) (world.Character, error) {
	if name != "" {
		c, err := s.CharacterByName(ctx, name)
		if err != nil {
			if errors.Is(err, world.ErrNotFound) {
				return world.Character{}, fmt.Errorf("no character named %q is in the world", name)
			}
			return world.Character{}, fmt.Errorf("get character: %w", err)
		}
		return c, nil
	}

	switch len(pop.Characters) {
	case 0:
		c, err := s.CreateCharacter(ctx, world.Character{
			Name: GuestName,
			Entity: world.Entity{
				ShortDesc: "a " + GuestName,
				LongDesc:  "A weary traveler.",
				Location:  pop.Start,
			},
		})
		if err != nil {
			return world.Character{}, fmt.Errorf("create guest character: %w", err)
		}
		return c, nil
	case 1:
		for _, c := range pop.Characters {
			return c, nil
		}
	}

	var names []string
	for _, c := range pop.Characters {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return world.Character{}, fmt.Errorf("world has more than one character; pick one of: %s", strings.Join(names, ", "))
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running game engine")
	}

	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}
	if err := eng.world.Close(); err != nil {
		return fmt.Errorf("close world: %w", err)
	}

	return nil
}

// RunUntilQuit reads commands from the input stream and answers each one
// until the quit command is entered or input ends.
func (eng *Engine) RunUntilQuit(ctx context.Context) error {
	introMsg := "Welcome to TunaMUD\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "==================\n"
	introMsg += "\n"

	start, err := world.Describe(ctx, eng.world, eng.caller.Location, eng.caller.ID)
	if err != nil {
		return fmt.Errorf("describe start room: %w", err)
	}

	if err := eng.write(introMsg + wrapLines(start, consoleOutputWidth) + "\n"); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		line, err := eng.in.ReadCommand()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if strings.EqualFold(line, QuitCommand) {
			break
		}

		resp := eng.interp.Handle(ctx, eng.caller, []byte(line))
		if resp.Payload == "" {
			continue
		}
		if err := eng.write(wrapLines(resp.Payload, consoleOutputWidth) + "\n"); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// wrapLines wraps each line of s on its own so that the line structure of
// room descriptions and tables survives.
func wrapLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if len(lines[i]) > width {
			lines[i] = rosed.Edit(lines[i]).Wrap(width).String()
		}
	}
	return strings.Join(lines, "\n")
}
