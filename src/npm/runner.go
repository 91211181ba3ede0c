package npm

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"

	"github.com/sofmeright/workspace-tools/src/consolidate"
)

// Runner executes one command.
type Runner interface {
	Run(ctx context.Context, dir, name string, args []string) error
}

// ExecRunner runs commands as child processes sharing the given stdio.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// CommandExecutionError reports the plan whose command failed. Plans
// before it were applied and are not rolled back.
type CommandExecutionError struct {
	Index   int // 1-based
	Plan    consolidate.InstallPlan
	Command string
	Err     error
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("plan %d (%s) failed: %s: %v", e.Index, e.Plan.Scope, e.Command, e.Err)
}

func (e *CommandExecutionError) Unwrap() error { return e.Err }

// Options configures Apply.
type Options struct {
	Binary string // default DefaultBinary
	Dir    string // workspace root the commands run in
	// OnCommand is called before each command runs.
	OnCommand func(index int, command string)
}

// Apply runs plans one after another and stops at the first failure.
// Plans out of phase order are refused before anything runs.
func Apply(ctx context.Context, runner Runner, opts Options, plans []consolidate.InstallPlan) error {
	if err := consolidate.ValidateOrder(plans); err != nil {
		return fmt.Errorf("refusing to apply plans: %w", err)
	}

	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	for i, plan := range plans {
		command := CommandLine(binary, plan)
		if opts.OnCommand != nil {
			opts.OnCommand(i+1, command)
		}
		log.WithFields(log.Fields{"dir": opts.Dir, "phase": plan.Phase}).Debug(command)

		if err := runner.Run(ctx, opts.Dir, binary, Args(plan)); err != nil {
			return &CommandExecutionError{Index: i + 1, Plan: plan, Command: command, Err: err}
		}
	}
	return nil
}
