/*
Mudi starts an interactive TunaMUD console session.

It reads in a world file, puts the player in control of one of its characters,
and then reads commands from stdin and prints what happens to stdout until the
"quit" command is entered or input ends.

Usage:

	mudi [flags]

The flags are:

	-v, --version
		Give the current version of TunaMUD and then exit.

	-w, --world FILE
		Use the provided world or manifest file. Defaults to the value of
		environment variable TUNAMUD_WORLD, and if that is not set, to the file
		"world.toml" in the current working directory.

	-c, --character NAME
		Play as the character with the given name. Required if the world
		defines more than one character.

	-l, --lexicon FILE
		Extend the built-in vocabulary with the words in the given YAML file.

	-d, --direct
		Force reading directly from the console as opposed to using readline
		even if launched in a tty with stdin and stdout.

	--debug
		Log diagnostic output to stderr.

Once a session has started, type "help" for a list of the commands.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dekarrin/tunamud"
	"github.com/dekarrin/tunamud/internal/version"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGameError indicates an unsuccessful program execution due to a
	// problem during the game.
	ExitGameError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

const EnvWorld = "TUNAMUD_WORLD"

var (
	returnCode    = ExitSuccess
	flagVersion   = pflag.BoolP("version", "v", false, "Give the current version of TunaMUD and then exit.")
	flagWorld     = pflag.StringP("world", "w", "world.toml", "The world or manifest file that defines the world.")
	flagCharacter = pflag.StringP("character", "c", "", "The name of the character to play.")
	flagLexicon   = pflag.StringP("lexicon", "l", "", "A YAML file of extra words to understand.")
	flagDirect    = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through readline.")
	flagDebug     = pflag.Bool("debug", false, "Log diagnostic output to stderr.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	worldFile := *flagWorld
	if env := os.Getenv(EnvWorld); env != "" && !pflag.Lookup("world").Changed {
		worldFile = env
	}

	log := zap.NewNop()
	if *flagDebug {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		var err error
		log, err = cfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not start logging: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer log.Sync()
	}

	gameEng, initErr := tunamud.New(os.Stdin, os.Stdout, tunamud.Options{
		WorldFile:   worldFile,
		Character:   *flagCharacter,
		LexiconFile: *flagLexicon,
		ForceDirect: *flagDirect,
		Log:         log,
	})
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer gameEng.Close()

	err := gameEng.RunUntilQuit(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGameError
		return
	}
}
