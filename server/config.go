package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dekarrin/tunamud/internal/transcript"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/internal/world/inmem"
	"github.com/dekarrin/tunamud/internal/world/sqlite"
	"gopkg.in/yaml.v3"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// DefaultListenAddress is where the server listens if nothing else is
// configured.
const DefaultListenAddress = "localhost:8080"

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	sLower := strings.ToLower(s)

	switch sLower {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database contains configuration settings for connecting to a persistence
// layer.
type Database struct {
	// Type is the type of database the config refers to. It also determines
	// which of its other fields are valid.
	Type DBType

	// DataDir is the path on disk to a directory to use to store data in. This
	// is only applicable for certain DB types: SQLite.
	DataDir string
}

// Stores is everything the server persists.
type Stores struct {
	World      world.Store
	Transcript transcript.Repository

	// Fresh is whether World was empty when connected to and so needs to be
	// populated.
	Fresh bool
}

// Close closes both stores.
func (st Stores) Close() error {
	worldErr := st.World.Close()
	transErr := st.Transcript.Close()
	if worldErr != nil {
		return fmt.Errorf("close world: %w", worldErr)
	}
	if transErr != nil {
		return fmt.Errorf("close transcript: %w", transErr)
	}
	return nil
}

// Connect performs all logic needed to connect to the configured DB and
// initialize the stores for use.
func (db Database) Connect() (Stores, error) {
	switch db.Type {
	case DatabaseInMemory:
		return Stores{
			World:      inmem.NewStore(),
			Transcript: transcript.NewMemoryRepository(),
			Fresh:      true,
		}, nil
	case DatabaseSQLite:
		err := os.MkdirAll(db.DataDir, 0770)
		if err != nil {
			return Stores{}, fmt.Errorf("create data dir: %w", err)
		}

		_, statErr := os.Stat(filepath.Join(db.DataDir, sqlite.DefaultFilename))
		fresh := os.IsNotExist(statErr)

		worldStore, err := sqlite.NewStore(db.DataDir)
		if err != nil {
			return Stores{}, fmt.Errorf("initialize sqlite world: %w", err)
		}

		transRepo, err := transcript.NewSQLiteRepository(db.DataDir)
		if err != nil {
			worldStore.Close()
			return Stores{}, fmt.Errorf("initialize sqlite transcript: %w", err)
		}

		return Stores{World: worldStore, Transcript: transRepo, Fresh: fresh}, nil
	case DatabaseNone:
		return Stores{}, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return Stores{}, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Validate returns an error if the Database does not have the correct fields
// set.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a database connection string of the form
// "engine:params" (or just "engine" if no other params are required) into a
// valid Database config object. For example, "sqlite:/data" would give the DB
// type of DatabaseSQLite that stores persistence in files located in the given
// dir, and "inmem" would give the DB type of DatabaseInMemory.
func ParseDBConnString(s string) (Database, error) {
	var paramStr string
	dbParts := strings.SplitN(s, ":", 2)

	if len(dbParts) == 2 {
		paramStr = strings.TrimSpace(dbParts[1])
	}

	dbEng, err := ParseDBType(strings.TrimSpace(dbParts[0]))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	switch dbEng {
	case DatabaseInMemory:
		if paramStr != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", paramStr)
		}

		return Database{Type: DatabaseInMemory}, nil
	case DatabaseSQLite:
		if paramStr == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}

		return Database{Type: DatabaseSQLite, DataDir: paramStr}, nil
	default:
		return Database{}, fmt.Errorf("unknown DB engine: %q", dbEng.String())
	}
}

// String gives the connection string for db.
func (db Database) String() string {
	if db.Type == DatabaseSQLite {
		return db.Type.String() + ":" + db.DataDir
	}
	return db.Type.String()
}

// Config is a configuration for a server.
type Config struct {
	// ListenAddress is the BIND_ADDRESS:PORT or :PORT to listen on.
	ListenAddress string

	// TokenSecret is the secret used for signing tokens.
	TokenSecret []byte

	// DB is the configuration to use for connecting to the database. If not
	// provided, an in-memory persistence layer is used.
	DB Database

	// WorldFile is the world or manifest file loaded into a fresh database.
	WorldFile string

	// LexiconFile is an optional YAML file of extra words for the annotator.
	LexiconFile string

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or that the server failed. If not set it
	// will default to 1 second. Set this to any negative number to disable
	// the delay.
	UnauthDelayMillis int

	// PasswordCost is the bcrypt cost used for character passwords. 0 means
	// bcrypt.DefaultCost.
	PasswordCost int
}

// fileConfig is the layout of a YAML config file.
type fileConfig struct {
	Listen            string `yaml:"listen"`
	TokenSecret       string `yaml:"token_secret"`
	Database          string `yaml:"database"`
	World             string `yaml:"world"`
	Lexicon           string `yaml:"lexicon"`
	UnauthDelayMillis int    `yaml:"unauth_delay_ms"`
	PasswordCost      int    `yaml:"password_cost"`
}

// LoadConfigFile reads a Config from the YAML file at path. Values not in the
// file are left unset.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig reads a Config from YAML data.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddress:     fc.Listen,
		WorldFile:         fc.World,
		LexiconFile:       fc.Lexicon,
		UnauthDelayMillis: fc.UnauthDelayMillis,
		PasswordCost:      fc.PasswordCost,
	}
	if fc.TokenSecret != "" {
		cfg.TokenSecret = []byte(fc.TokenSecret)
	}
	if fc.Database != "" {
		db, err := ParseDBConnString(fc.Database)
		if err != nil {
			return Config{}, fmt.Errorf("database: %w", err)
		}
		cfg.DB = db
	}

	return cfg, nil
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMillis is less than 1, this will return a
// zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.ListenAddress == "" {
		newCFG.ListenAddress = DefaultListenAddress
	}
	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.WorldFile == "" {
		newCFG.WorldFile = "world.toml"
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if !strings.Contains(cfg.ListenAddress, ":") {
		return fmt.Errorf("listen address: not in ADDRESS:PORT or :PORT format: %q", cfg.ListenAddress)
	}
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.WorldFile == "" {
		return fmt.Errorf("world file: not set")
	}
	if cfg.PasswordCost < 0 {
		return fmt.Errorf("password cost: must not be negative")
	}

	return nil
}
