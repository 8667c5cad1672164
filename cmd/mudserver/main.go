/*
Mudserver starts a TunaMUD server and begins listening for new connections.

Usage:

	mudserver [flags]
	mudserver [flags] -l [[ADDRESS]:PORT]

Once started, the TunaMUD server will listen for HTTP requests and respond to
them using REST protocol, and will also accept websocket connections that play
a character one line at a time. By default, it will listen on localhost:8080.
This can be changed with the --listen/-l flag (or config via environment var).
The flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
either CLI flags, config file, or environment variable if running in
production.

Settings are taken from a config file first, then environment variables, then
flags, with each overriding the last.

The flags are:

	-v, --version
		Give the current version of the TunaMUD server and then exit.

	-c, --config FILE
		Read settings from the given YAML file.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		TUNAMUD_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable TUNAMUD_TOKEN_SECRET. If no secret is specified, a random
		secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable TUNAMUD_DATABASE, and if that is
		not given, an in-memory database is used.

	-w, --world FILE
		Load the given world or manifest file into the database when it is
		new. Defaults to the value of environment variable TUNAMUD_WORLD, and
		if that is not set, to "world.toml".

	--lexicon FILE
		Extend the built-in vocabulary with the words in the given YAML file.

	--debug
		Log at debug level.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dekarrin/tunamud/internal/version"
	"github.com/dekarrin/tunamud/server"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	EnvListen = "TUNAMUD_LISTEN_ADDRESS"
	EnvSecret = "TUNAMUD_TOKEN_SECRET"
	EnvDB     = "TUNAMUD_DATABASE"
	EnvWorld  = "TUNAMUD_WORLD"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of TunaMUD server and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Read settings from the given YAML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagWorld   = pflag.StringP("world", "w", "", "The world or manifest file to load into a new database.")
	flagLexicon = pflag.String("lexicon", "", "A YAML file of extra words to understand.")
	flagDebug   = pflag.Bool("debug", false, "Log at debug level.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (TunaMUD v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	logCfg := zap.NewProductionConfig()
	if *flagDebug {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not start logging: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := assembleConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	if cfg.TokenSecret == nil {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			log.Fatal("could not generate token secret", zap.Error(err))
		}
		log.Warn("using generated token secret; all tokens issued will become invalid at shutdown")
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("could not start server", zap.Error(err))
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting TunaMUD server", zap.String("version", version.ServerCurrent))
	if err := srv.ServeUntilDone(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
		return
	}
	log.Info("server stopped")
}

// assembleConfig layers the config file, then the environment, then the flags.
func assembleConfig() (server.Config, error) {
	var cfg server.Config
	if *flagConfig != "" {
		var err error
		cfg, err = server.LoadConfigFile(*flagConfig)
		if err != nil {
			return cfg, err
		}
	}

	if v := setting(EnvListen, "listen", *flagListen); v != "" {
		cfg.ListenAddress = v
	}

	if v := setting(EnvDB, "db", *flagDB); v != "" {
		db, err := server.ParseDBConnString(v)
		if err != nil {
			return cfg, err
		}
		cfg.DB = db
	}

	if v := setting(EnvWorld, "world", *flagWorld); v != "" {
		cfg.WorldFile = v
	}

	if pflag.Lookup("lexicon").Changed {
		cfg.LexiconFile = *flagLexicon
	}

	if v := setting(EnvSecret, "secret", *flagSecret); v != "" {
		cfg.TokenSecret = []byte(v)
	}
	if cfg.TokenSecret != nil {
		tokSecret := cfg.TokenSecret
		for len(tokSecret) < server.MinSecretSize {
			doubled := make([]byte, len(tokSecret)*2)
			copy(doubled, tokSecret)
			copy(doubled[len(tokSecret):], tokSecret)
			tokSecret = doubled
		}

		if len(tokSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			return cfg, fmt.Errorf("Token secret is %d bytes, but it must be <= %d bytes", len(tokSecret), server.MaxSecretSize)
		}
		cfg.TokenSecret = tokSecret
	}

	return cfg, nil
}

// setting gives the flag value if the flag was set, otherwise the value of the
// environment variable.
func setting(env, flagName, flagVal string) string {
	if pflag.Lookup(flagName).Changed {
		return flagVal
	}
	return os.Getenv(env)
}
