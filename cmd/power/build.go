// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/minsk-dev/power/grammar"
	"github.com/minsk-dev/power/internal/compiler"
	"github.com/minsk-dev/power/internal/config"
	"github.com/minsk-dev/power/internal/errors"
	"github.com/minsk-dev/power/internal/ir"
)

// compileFile parses and lowers the file at path. Failures are printed
// through the error reporter and reported as a nil module.
func compileFile(path string, cfg *config.Config) *ir.Module {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return nil
	}

	errorReporter := errors.NewErrorReporter(path, string(source))

	mode, err := grammar.ParseMode(cfg.Build.Mode)
	if err != nil {
		fmt.Print(errorReporter.Format(errors.Driver(err.Error())))
		return nil
	}

	program, err := grammar.ParseSource(path, string(source), mode)
	if err != nil {
		fmt.Print(errorReporter.Format(err))
		return nil
	}

	var opts []compiler.Option
	if cfg.Build.ModuleName != "" {
		opts = append(opts, compiler.WithModuleName(cfg.Build.ModuleName))
	}

	module, err := compiler.CompileProgram(ir.NewContext(), program, opts...)
	if err != nil {
		fmt.Print(errorReporter.Format(err))
		return nil
	}
	return module
}

func execBuild(path string, cfg *config.Config, startTime time.Time) int {
	module := compileFile(path, cfg)
	if module == nil {
		color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
		return 1
	}

	if err := os.WriteFile(cfg.Build.Output, []byte(module.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", cfg.Build.Output, err)
		return 1
	}

	color.Green("Successfully compiled %s to %s in %s", path, cfg.Build.Output, formatDuration(time.Since(startTime)))
	return 0
}

func execCheck(path string, cfg *config.Config, startTime time.Time) int {
	if compileFile(path, cfg) == nil {
		color.Red("Check failed after %s", formatDuration(time.Since(startTime)))
		return 1
	}

	color.Green("No errors in %s (%s)", path, formatDuration(time.Since(startTime)))
	return 0
}

// execRun evaluates main and exits with its return value
func execRun(path string, cfg *config.Config) int {
	module := compileFile(path, cfg)
	if module == nil {
		return 1
	}

	code, err := ir.Run(module, compiler.EntryPoint, os.Stdout)
	if err != nil {
		color.Red("runtime error: %s", err)
		return 1
	}
	return int(uint8(code))
}
