package plan

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"treerun/internal/config"
	"treerun/internal/fileutil"
	"treerun/internal/services"
	"treerun/internal/tasktree"
)

// Environment is the context payload threaded through a built tree.
// Steps inherit the nearest ancestor's environment; grouping steps
// that set env or dir derive a child environment for their subtree.
type Environment struct {
	Shell       string
	WorkDir     string
	Env         map[string]string
	InheritEnv  bool
	StepTimeout time.Duration
}

// Build lowers a validated plan into a task tree rooted at a grouping
// task titled after the plan.
func Build(cfg *config.Config, p *Plan) *tasktree.Task {
	base := &Environment{
		Shell:      cfg.Runner.Shell,
		Env:        cloneEnv(p.Env),
		InheritEnv: cfg.Runner.InheritEnv,
	}
	if cfg.Runner.StepTimeout > 0 {
		base.StepTimeout = time.Duration(cfg.Runner.StepTimeout) * time.Second
	}

	root := tasktree.New(p.Title, tasktree.WithContext(base))
	for i := range p.Steps {
		root.AddChildren(buildStep(&p.Steps[i], base))
	}
	return root
}

func buildStep(s *Step, parent *Environment) *tasktree.Task {
	env := parent
	if len(s.Env) > 0 || strings.TrimSpace(s.Dir) != "" {
		derived := *parent
		derived.Env = mergeEnv(parent.Env, s.Env)
		if dir := strings.TrimSpace(s.Dir); dir != "" {
			derived.WorkDir = dir
		}
		env = &derived
	}

	opts := make([]tasktree.Option, 0, 2)
	if env != parent {
		opts = append(opts, tasktree.WithContext(env))
	}
	switch {
	case strings.TrimSpace(s.Command) != "":
		opts = append(opts, tasktree.WithExec(commandExec(s.Title, s.Command, s.StdinFromPrev)))
	case s.Copy != nil:
		opts = append(opts, tasktree.WithExec(copyExec(*s.Copy)))
	}

	task := tasktree.New(s.Title, opts...)
	for i := range s.Steps {
		task.AddChildren(buildStep(&s.Steps[i], env))
	}
	return task
}

// commandExec runs the step command through the configured shell. The
// trimmed combined output becomes the step result.
func commandExec(title, command string, stdinFromPrev bool) tasktree.ExecFunc {
	return func(ctx context.Context, payload, prev any) (any, error) {
		env := environmentFrom(payload)

		runCtx := ctx
		if env.StepTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, env.StepTimeout)
			defer cancel()
		}

		cmd := exec.CommandContext(runCtx, env.Shell, "-c", command)
		cmd.Dir = env.WorkDir
		cmd.Env = buildEnviron(env, prev)
		if stdinFromPrev && prev != nil {
			cmd.Stdin = strings.NewReader(fmt.Sprint(prev))
		}

		output, err := cmd.CombinedOutput()
		if err != nil {
			detail := strings.TrimSpace(string(output))
			if detail == "" {
				detail = command
			}
			return nil, services.Wrap(services.ErrExternalTool, "plan", "run command", detail, err)
		}
		return strings.TrimRight(string(output), "\n"), nil
	}
}

// copyExec copies a file, returning the destination path as the step
// result.
func copyExec(c Copy) tasktree.ExecFunc {
	return func(_ context.Context, _, _ any) (any, error) {
		src, err := config.ExpandPath(c.Src)
		if err != nil {
			return nil, err
		}
		dst, err := config.ExpandPath(c.Dst)
		if err != nil {
			return nil, err
		}
		if err := fileutil.EnsureParentDir(dst); err != nil {
			return nil, fmt.Errorf("prepare copy destination: %w", err)
		}
		if c.Verified {
			err = fileutil.CopyFileVerified(src, dst)
		} else {
			err = fileutil.CopyFile(src, dst)
		}
		if err != nil {
			return nil, fmt.Errorf("copy %s to %s: %w", src, dst, err)
		}
		return dst, nil
	}
}

func environmentFrom(payload any) *Environment {
	if env, ok := payload.(*Environment); ok && env != nil {
		return env
	}
	return &Environment{Shell: "/bin/sh", InheritEnv: true}
}

// buildEnviron assembles the process environment for a command step:
// optional parent environ, plan/step variables in sorted order, and
// the previous result under TREERUN_PREV.
func buildEnviron(env *Environment, prev any) []string {
	var environ []string
	if env.InheritEnv {
		environ = os.Environ()
	}
	for _, key := range slices.Sorted(maps.Keys(env.Env)) {
		environ = append(environ, key+"="+env.Env[key])
	}
	if prev != nil {
		environ = append(environ, "TREERUN_PREV="+fmt.Sprint(prev))
	}
	return environ
}

func cloneEnv(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}

func mergeEnv(parent, child map[string]string) map[string]string {
	if len(parent) == 0 {
		return cloneEnv(child)
	}
	merged := maps.Clone(parent)
	maps.Copy(merged, child)
	return merged
}
