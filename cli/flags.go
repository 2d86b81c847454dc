package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const flagGroupAnnotation = "group"

type cliSettings struct {
	poolSize   int
	workers    int
	iterations int
	hold       time.Duration
	rateLimit  float64
	runTimeout time.Duration
	checked    bool

	logLevel string
	quiet    bool

	statsd        bool
	statsdAddress string
	statsdEnv     string

	configPath string
}

var settings cliSettings

func init() {
	pflag.CommandLine.SortFlags = false

	// General Flags
	pflag.IntVarP(&settings.poolSize, "pool-size", "p", 3, "Number of resources the pool is seeded with")
	pflag.IntVarP(&settings.workers, "workers", "w", 8, "Number of concurrent borrower workers contending for the pool")
	pflag.IntVarP(&settings.iterations, "iterations", "n", 200, "Total number of acquire/release cycles to run")
	pflag.DurationVar(&settings.hold, "hold", 2*time.Millisecond, "How long each borrower holds a resource before releasing it")
	pflag.Float64Var(&settings.rateLimit, "rate", 0, "Cap on cycle starts per second. 0 disables rate limiting")
	pflag.DurationVar(&settings.runTimeout, "run-timeout", 0, "Abort the whole run after this duration. 0 disables the deadline")
	pflag.BoolVar(&settings.checked, "checked", false, "Exercise the ownership-checked pool variant instead of the plain one")
	pflag.StringVarP(&settings.configPath, "config", "c", "", "Path to a config file overriding flag defaults")
	printHelp := pflag.BoolP("help", "h", false, "Show this help message")

	// Logging settings
	var loggingSectionName string = "Logging Options"
	pflag.StringVar(&settings.logLevel, "log-level", "info", "Log level [trace, debug, info, warn, error]")
	addFlagToHelpGroup("log-level", loggingSectionName)

	pflag.BoolVarP(&settings.quiet, "quiet", "q", false, "Disable the progress bar")
	addFlagToHelpGroup("quiet", loggingSectionName)

	// Telemetry settings
	var telemetrySectionName string = "Telemetry Options"
	pflag.BoolVar(&settings.statsd, "statsd", false, "Emit pool telemetry to a statsd agent")
	addFlagToHelpGroup("statsd", telemetrySectionName)

	pflag.StringVar(&settings.statsdAddress, "statsd-address", "localhost:8125", "Address of the statsd agent")
	addFlagToHelpGroup("statsd-address", telemetrySectionName)

	pflag.StringVar(&settings.statsdEnv, "statsd-env", "dev", "Environment tag attached to every emitted metric")
	addFlagToHelpGroup("statsd-env", telemetrySectionName)

	pflag.Usage = cliUsage
	pflag.Parse()

	if *printHelp {
		cliUsage()
		os.Exit(0)
	}

	if err := loadConfigFile(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config file:", err)
		os.Exit(1)
	}
}

// loadConfigFile merges an optional config file underneath the command line:
// explicitly set flags win, then config file values, then flag defaults.
func loadConfigFile() error {
	if settings.configPath == "" {
		return nil
	}

	viper.SetConfigFile(settings.configPath)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}

	settings.poolSize = viper.GetInt("pool-size")
	settings.workers = viper.GetInt("workers")
	settings.iterations = viper.GetInt("iterations")
	settings.hold = viper.GetDuration("hold")
	settings.rateLimit = viper.GetFloat64("rate")
	settings.runTimeout = viper.GetDuration("run-timeout")
	settings.checked = viper.GetBool("checked")
	settings.logLevel = viper.GetString("log-level")
	settings.quiet = viper.GetBool("quiet")
	settings.statsd = viper.GetBool("statsd")
	settings.statsdAddress = viper.GetString("statsd-address")
	settings.statsdEnv = viper.GetString("statsd-env")

	return nil
}

func cliUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", filepath.Base(os.Args[0]))

	// Group flags by annotation, default to "General Options"
	helpGroupLists := make(map[string][]*pflag.Flag)
	var helpGroupOrder []string
	var longestFlagName, longestHelpMessage, longestDefaultVal int

	pflag.CommandLine.VisitAll(func(f *pflag.Flag) {
		currentFlagAnnotations := f.Annotations[flagGroupAnnotation]
		flagGroup := "General Options"
		if len(currentFlagAnnotations) > 0 {
			flagGroup = currentFlagAnnotations[0]
		}

		if _, helpGroupExists := helpGroupLists[flagGroup]; !helpGroupExists {
			helpGroupLists[flagGroup] = []*pflag.Flag{}
			helpGroupOrder = append(helpGroupOrder, flagGroup)
		}
		helpGroupLists[flagGroup] = append(helpGroupLists[flagGroup], f)

		longestFlagName = max(longestFlagName, len(f.Name)+1)
		longestHelpMessage = max(longestHelpMessage, len(f.Usage)+1)
		longestDefaultVal = max(longestDefaultVal, len(getDefaultString(f))+1)
	})

	// Print each group
	for _, helpGroupName := range helpGroupOrder {
		flags := helpGroupLists[helpGroupName]
		if len(flags) == 0 {
			continue
		}

		fmt.Fprint(os.Stderr, colorText(hiYellow, helpGroupName+":\n"))
		for _, f := range flags {
			printFormattedFlag(
				f, longestFlagName, longestHelpMessage, longestDefaultVal)
		}
		fmt.Fprint(os.Stderr, "\n")
	}

	fmt.Fprintln(os.Stderr)
}

func printFormattedFlag(f *pflag.Flag, maxFlagName, maxHelpText, maxDef int) {
	defaultValue := getDefaultString(f)
	defaultValuePadding := strings.Repeat(" ", maxDef-len(defaultValue))

	helpPadding := strings.Repeat(" ", maxHelpText-len(f.Usage))
	defaultTxt := colorText(darkPurple, fmt.Sprintf(
		"%sDefault: %s%s", helpPadding, defaultValuePadding, defaultValue))

	flagPadding := strings.Repeat(" ", maxFlagName-len(f.Name))
	flagName := colorText(cyan, fmt.Sprintf("--%s%s", f.Name, flagPadding))

	usageText := colorText(green, f.Usage)

	fmt.Fprintf(os.Stderr, "\t%s %s   %s\n", flagName, usageText, defaultTxt)
}

// ANSI color codes

type color string

const (
	cyan       color = "\033[96m" // Bright cyan
	darkPurple color = "\033[38;5;55m"
	hiYellow   color = "\033[93m" // Bright yellow
	green      color = "\033[92m" // Bright green
)

const reset = "\033[0m"

func colorText(c color, text string) string { return string(c) + text + reset }

func getDefaultString(f *pflag.Flag) string {
	if f.DefValue == "" {
		return "\"\""
	}
	return f.DefValue
}

func addFlagToHelpGroup(flagName string, helpGroupName string) {
	lookupFlag := pflag.Lookup(flagName)
	if lookupFlag == nil {
		panic("unknown flag: " + flagName)
	}

	if lookupFlag.Annotations == nil {
		lookupFlag.Annotations = map[string][]string{}
	}
	lookupFlag.Annotations[flagGroupAnnotation] = []string{helpGroupName}
}
