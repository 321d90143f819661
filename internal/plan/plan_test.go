package plan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"treerun/internal/config"
	"treerun/internal/services"
	"treerun/internal/tasktree"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func TestLoadValidPlan(t *testing.T) {
	path := writePlan(t, `
title = "nightly"

[[steps]]
title = "greet"
command = "echo hello"

[[steps]]
title = "group"

[[steps.steps]]
title = "nested"
command = "true"
`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Title != "nightly" || len(p.Steps) != 2 {
		t.Fatalf("plan = %+v", p)
	}
	if len(p.Steps[1].Steps) != 1 || p.Steps[1].Steps[0].Title != "nested" {
		t.Fatalf("nested steps = %+v", p.Steps[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			"missing title",
			"[[steps]]\ntitle = \"x\"\ncommand = \"true\"\n",
			"title is required",
		},
		{
			"no steps",
			"title = \"empty\"\n",
			"at least one step",
		},
		{
			"untitled step",
			"title = \"p\"\n[[steps]]\ncommand = \"true\"\n",
			"missing a title",
		},
		{
			"step without action",
			"title = \"p\"\n[[steps]]\ntitle = \"idle\"\n",
			"exactly one of",
		},
		{
			"step with two actions",
			"title = \"p\"\n[[steps]]\ntitle = \"both\"\ncommand = \"true\"\ncopy = { src = \"a\", dst = \"b\" }\n",
			"exactly one of",
		},
		{
			"copy without dst",
			"title = \"p\"\n[[steps]]\ntitle = \"cp\"\ncopy = { src = \"a\" }\n",
			"requires src and dst",
		},
		{
			"stdin without command",
			"title = \"p\"\n[[steps]]\ntitle = \"cp\"\nstdin_from_result = true\ncopy = { src = \"a\", dst = \"b\" }\n",
			"stdin_from_result",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writePlan(t, tc.content))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want mention of %q", err.Error(), tc.want)
			}
		})
	}
}

func TestBuildAndRunCommandSteps(t *testing.T) {
	p, err := Load(writePlan(t, `
title = "pipeline"

[[steps]]
title = "produce"
command = "printf first"

[[steps]]
title = "consume"
command = "cat"
stdin_from_result = true
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	root := Build(testConfig(), p)
	result, err := tasktree.Run(context.Background(), root, tasktree.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result != "first" {
		t.Fatalf("result = %v, want %q threaded through cat", result, "first")
	}
}

func TestBuildExposesPrevInEnvironment(t *testing.T) {
	p, err := Load(writePlan(t, `
title = "env"

[[steps]]
title = "produce"
command = "printf seed"

[[steps]]
title = "read env"
command = "printf '%s' \"$TREERUN_PREV\""
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	result, err := tasktree.Run(context.Background(), Build(testConfig(), p), tasktree.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result != "seed" {
		t.Fatalf("result = %v, want seed", result)
	}
}

func TestBuildEnvInheritanceAndOverride(t *testing.T) {
	p, err := Load(writePlan(t, `
title = "env-tree"

[env]
GREETING = "root"

[[steps]]
title = "inherits"
command = "printf '%s' \"$GREETING\""

[[steps]]
title = "group"
env = { GREETING = "group" }

[[steps.steps]]
title = "overridden"
command = "printf '%s' \"$GREETING\""
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var results []any
	root := Build(testConfig(), p)
	_, err = tasktree.Run(context.Background(), root, tasktree.RunOptions{
		OnStageChange: func(stage tasktree.Stage, task *tasktree.Task) {
			if stage.Kind == tasktree.KindSuccess && task.Executable() {
				results = append(results, stage.Data)
			}
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 || results[0] != "root" || results[1] != "group" {
		t.Fatalf("results = %v, want [root group]", results)
	}
}

func TestBuildFailingCommandWrapsExternalToolError(t *testing.T) {
	p, err := Load(writePlan(t, `
title = "fails"

[[steps]]
title = "bad"
command = "echo oops >&2; exit 3"

[[steps]]
title = "never"
command = "printf unreachable"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	root := Build(testConfig(), p)
	_, err = tasktree.Run(context.Background(), root, tasktree.RunOptions{})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Fatalf("error = %q, want captured stderr", err.Error())
	}

	children := root.Children()
	if got := children[1].Stage(); got != nil {
		t.Fatalf("step after failure has stage %+v, want unset", got)
	}
	if got := root.Stage(); got == nil || got.Kind != tasktree.KindFailedCompleted {
		t.Fatalf("root stage = %+v, want failed_completed", got)
	}
}

func TestBuildCopyStep(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "out", "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &Plan{
		Title: "copy",
		Steps: []Step{
			{Title: "copy file", Copy: &Copy{Src: src, Dst: dst, Verified: true}},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	result, err := tasktree.Run(context.Background(), Build(testConfig(), p), tasktree.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result != dst {
		t.Fatalf("result = %v, want %q", result, dst)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("copied content = %q", got)
	}
}

func TestBuildStepDirApplies(t *testing.T) {
	dir := t.TempDir()
	p := &Plan{
		Title: "dirs",
		Steps: []Step{
			{Title: "pwd", Command: "pwd", Dir: dir},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	result, err := tasktree.Run(context.Background(), Build(testConfig(), p), tasktree.RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if result != dir && result != resolved {
		t.Fatalf("pwd = %v, want %q", result, dir)
	}
}
