package application

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultConfigPath is the configuration file that is read if no other configuration source is
// specified and the file exists.
const DefaultConfigPath = "/etc/ld-offline.conf"

// Command names accepted on the command line.
const (
	CommandEval      = "eval"
	CommandValidate  = "validate"
	CommandNormalize = "normalize"
	CommandWatch     = "watch"
)

// Options represents all options that can be set from the command line.
type Options struct {
	ConfigFile       string
	AllowMissingFile bool
	UseEnvironment   bool
	FeaturesDir      string
	Command          string
	Args             []string
}

func errConfigFileNotFound(filename string) error {
	return fmt.Errorf("configuration file %q does not exist", filename)
}

func errNoCommand() error {
	return fmt.Errorf("a command is required (%s)", strings.Join(allCommands(), ", "))
}

func errUnknownCommand(command string) error {
	return fmt.Errorf("unknown command %q (expected one of: %s)", command, strings.Join(allCommands(), ", "))
}

func errWrongArgCount(command, usage string) error {
	return fmt.Errorf("wrong number of arguments; usage: %s %s", command, usage)
}

func allCommands() []string {
	return []string{CommandEval, CommandValidate, CommandNormalize, CommandWatch}
}

// DescribeConfigSource returns a human-readable phrase describing whether the configuration comes from a
// file, from variables, both, or neither.
func (o Options) DescribeConfigSource() string {
	if o.ConfigFile == "" && o.UseEnvironment {
		return "configuration from environment variables"
	}
	if o.ConfigFile == "" {
		return "default configuration"
	}
	desc := fmt.Sprintf("configuration file %s", o.ConfigFile)
	if o.UseEnvironment {
		desc += " plus environment variables"
	}
	return desc
}

// ReadOptions reads and validates the command-line options. The first element of args is the
// program name.
//
// The configuration parameter behavior is as follows:
//  1. If you specify --config $FILEPATH, it loads that file. Failure to find it or parse it is a fatal error,
//     unless you also specify --allow-missing-file.
//  2. If you specify --from-env, it applies configuration from environment variables.
//  3. If you specify both, the file is loaded first, then it applies changes from variables if any.
//  4. Omitting both options loads /etc/ld-offline.conf if it exists, and otherwise uses the defaults.
//
// --dir overrides the features directory from any configuration source.
func ReadOptions(args []string, helpOut io.Writer) (Options, error) {
	var o Options

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(helpOut)
	fs.StringVar(&o.ConfigFile, "config", "", "configuration file location")
	fs.BoolVar(&o.AllowMissingFile, "allow-missing-file", false, "suppress error if config file is not found")
	fs.BoolVar(&o.UseEnvironment, "from-env", false, "read configuration from environment variables")
	fs.StringVar(&o.FeaturesDir, "dir", "", "directory containing feature artifacts")
	if err := fs.Parse(args[1:]); err != nil {
		return o, err
	}

	if o.ConfigFile == "" && !o.UseEnvironment {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			o.ConfigFile = DefaultConfigPath
		}
	} else if o.ConfigFile != "" {
		_, err := os.Stat(o.ConfigFile)
		fileExists := err == nil || !os.IsNotExist(err)
		if !fileExists {
			if !o.AllowMissingFile {
				return o, errConfigFileNotFound(o.ConfigFile)
			}
			o.ConfigFile = ""
		}
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return o, errNoCommand()
	}
	o.Command, o.Args = rest[0], rest[1:]

	switch o.Command {
	case CommandEval:
		if len(o.Args) < 1 || len(o.Args) > 2 {
			return o, errWrongArgCount(o.Command, "<feature> [default-json]")
		}
	case CommandValidate, CommandNormalize:
		if len(o.Args) == 0 {
			return o, errWrongArgCount(o.Command, "<file>...")
		}
	case CommandWatch:
		if len(o.Args) != 0 {
			return o, errWrongArgCount(o.Command, "")
		}
	default:
		return o, errUnknownCommand(o.Command)
	}

	return o, nil
}

// DescribeVersion returns the same version string unless it is a prerelease build, in
// which case it is reformatted to change "+xxx" into "(build xxx)".
func DescribeVersion(version string) string {
	split := strings.Split(version, "+")
	if len(split) == 2 {
		return fmt.Sprintf("%s (build %s)", split[0], split[1])
	}
	return version
}
