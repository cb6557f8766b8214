// Package cli parses patrol's command line.
package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoSubcommand is returned when no known subcommand is provided.
var ErrNoSubcommand = errors.New("missing subcommand: usage: patrol <check|catalog|history|watch> [flags]")

// ErrMissingFlagValue is returned when a flag requires a value but none is provided.
var ErrMissingFlagValue = errors.New("flag requires a value")

// Subcommand represents the CLI subcommand.
type Subcommand string

const (
	SubcommandCheck   Subcommand = "check"
	SubcommandCatalog Subcommand = "catalog"
	SubcommandHistory Subcommand = "history"
	SubcommandWatch   Subcommand = "watch"
)

// Command represents the parsed CLI input.
type Command struct {
	Subcommand Subcommand
	Action     string // catalog: "show" (default) or "refresh"; history: "list" (default) or "clear"

	// Input selection
	ConfigPath   string // --config <path>
	CatalogPath  string // --catalog <path>
	CatalogURL   string // --catalog-url <url>
	AgentVersion string // --agent-version <v>

	// Catalog cache behavior
	Offline bool          // --offline: never fetch, use cache or file only
	MaxAge  time.Duration // --max-age <duration>: cache freshness window

	// Output
	JSONOutput bool // --json
	CIMode     bool // --ci
	NoColor    bool // --no-color

	// Artifact and history
	ArtifactFile   string // --artifact-file <path>
	ArtifactStdout bool   // --artifact-stdout
	Save           bool   // --save: record this run in history
	HomeDir        string // --home <dir>: overrides ~/.patrol
}

// DefaultMaxAge is the catalog cache freshness window when --max-age is not given.
const DefaultMaxAge = 24 * time.Hour

// ParseArgs parses CLI arguments into a Command.
// It expects args to be os.Args[1:] (excluding the program name).
func ParseArgs(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrNoSubcommand
	}

	sub := Subcommand(args[0])
	switch sub {
	case SubcommandCheck, SubcommandCatalog, SubcommandHistory, SubcommandWatch:
	default:
		return Command{}, ErrNoSubcommand
	}

	cmd := Command{
		Subcommand: sub,
		MaxAge:     DefaultMaxAge,
	}

	i := 1
	for i < len(args) {
		arg := args[i]

		if !strings.HasPrefix(arg, "--") {
			// A bare word after catalog/history selects the action.
			if (sub == SubcommandCatalog || sub == SubcommandHistory) && cmd.Action == "" {
				cmd.Action = arg
				i++
				continue
			}
			return Command{}, fmt.Errorf("unexpected argument: %s", arg)
		}

		switch arg {
		case "--json":
			cmd.JSONOutput = true
			i++
		case "--ci":
			cmd.CIMode = true
			i++
		case "--no-color":
			cmd.NoColor = true
			i++
		case "--offline":
			cmd.Offline = true
			i++
		case "--artifact-stdout":
			cmd.ArtifactStdout = true
			i++
		case "--save":
			cmd.Save = true
			i++
		case "--config":
			val, next, err := flagValue(args, i)
			if err != nil {
				return Command{}, err
			}
			cmd.ConfigPath = val
			i = next
		case "--catalog":
			val, next, err := flagValue(args, i)
			if err != nil {
				return Command{}, err
			}
			cmd.CatalogPath = val
			i = next
		case "--catalog-url":
			val, next, err := flagValue(args, i)
			if err != nil {
				return Command{}, err
			}
			cmd.CatalogURL = val
			i = next
		case "--agent-version":
			val, next, err := flagValue(args, i)
			if err != nil {
				return Command{}, err
			}
			cmd.AgentVersion = val
			i = next
		case "--artifact-file":
			val, next, err := flagValue(args, i)
			if err != nil {
				return Command{}, err
			}
			cmd.ArtifactFile = val
			i = next
		case "--home":
			val, next, err := flagValue(args, i)
			if err != nil {
				return Command{}, err
			}
			cmd.HomeDir = val
			i = next
		case "--max-age":
			val, next, err := flagValue(args, i)
			if err != nil {
				return Command{}, err
			}
			d, err := time.ParseDuration(val)
			if err != nil {
				return Command{}, fmt.Errorf("invalid --max-age: %w", err)
			}
			cmd.MaxAge = d
			i = next
		default:
			return Command{}, fmt.Errorf("unknown flag: %s", arg)
		}
	}

	// Default actions for subcommands that take one.
	if cmd.Action == "" {
		switch sub {
		case SubcommandCatalog:
			cmd.Action = "show"
		case SubcommandHistory:
			cmd.Action = "list"
		}
	}

	return cmd, nil
}

// flagValue returns the value following the flag at index i and the index
// of the next argument to parse.
func flagValue(args []string, i int) (string, int, error) {
	if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
		return "", 0, fmt.Errorf("%s: %w", args[i], ErrMissingFlagValue)
	}
	return args[i+1], i + 2, nil
}
