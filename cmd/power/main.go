// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ComedicChimera/olive"
	"github.com/fatih/color"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/minsk-dev/power/internal/config"
)

const version = "0.1.0"

var modes = []string{"script", "module"}

func main() {
	os.Exit(execute(os.Args))
}

// execute parses the command line and returns the process exit status
func execute(args []string) int {
	cli := olive.NewCLI("power", "power compiles scripts to LLVM IR", true)
	cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"quiet", "error", "info", "debug"})

	buildCmd := cli.AddSubcommand("build", "compile a source file to a .ll file", true)
	buildCmd.AddPrimaryArg("file", "the source file to compile", true)
	buildCmd.AddStringArg("output", "o", "the output path", false)
	buildCmd.AddSelectorArg("mode", "m", "parse the source as a script or a module", false, modes)
	buildCmd.AddStringArg("config", "c", "the project file to use instead of the nearest power.toml", false)
	buildCmd.AddStringArg("module-name", "n", "the name of the emitted module", false)

	checkCmd := cli.AddSubcommand("check", "report errors without writing output", true)
	checkCmd.AddPrimaryArg("file", "the source file to check", true)
	checkCmd.AddSelectorArg("mode", "m", "parse the source as a script or a module", false, modes)
	checkCmd.AddStringArg("config", "c", "the project file to use instead of the nearest power.toml", false)

	runCmd := cli.AddSubcommand("run", "compile a source file and evaluate main", true)
	runCmd.AddPrimaryArg("file", "the source file to run", true)
	runCmd.AddSelectorArg("mode", "m", "parse the source as a script or a module", false, modes)
	runCmd.AddStringArg("config", "c", "the project file to use instead of the nearest power.toml", false)

	cli.AddSubcommand("version", "print the compiler version", false)

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		color.Red("usage error: %s", err)
		return 2
	}

	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		color.Red("usage error: expected one of build, check, run, version")
		return 2
	}

	if subcmdName == "version" {
		fmt.Printf("power %s\n", version)
		return 0
	}

	path, _ := subResult.PrimaryArg()
	cfg, err := loadConfig(path, subResult.Arguments, result.Arguments)
	if err != nil {
		color.Red("config error: %s", err)
		return 1
	}
	applySourceArgs(cfg, subResult)
	if err := cfg.Validate(); err != nil {
		color.Red("config error: %s", err)
		return 1
	}

	commonlog.Configure(cfg.Verbosity(), nil)

	startTime := time.Now()
	switch subcmdName {
	case "build":
		return execBuild(path, cfg, startTime)
	case "check":
		return execCheck(path, cfg, startTime)
	case "run":
		return execRun(path, cfg)
	}
	return 2
}

// loadConfig reads the project file named by -c, or else the nearest
// power.toml above the source file. An explicit log level on the command line
// wins over the project file.
func loadConfig(path string, args, globals map[string]interface{}) (*config.Config, error) {
	cfg := config.Default()

	found := config.Find(filepath.Dir(path))
	if v, ok := args["config"]; ok {
		found = v.(string)
	}
	if found != "" {
		loaded, err := config.Load(found)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v, ok := globals["loglevel"]; ok {
		cfg.Log.Level = v.(string)
	}
	return cfg, nil
}

func applySourceArgs(cfg *config.Config, result *olive.ArgParseResult) {
	if v, ok := result.Arguments["mode"]; ok {
		cfg.Build.Mode = v.(string)
	}
	if v, ok := result.Arguments["module-name"]; ok {
		cfg.Build.ModuleName = v.(string)
	}
	if v, ok := result.Arguments["output"]; ok {
		cfg.Build.Output = v.(string)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
