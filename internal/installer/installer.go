// Package installer shells out to the npm CLI to install packages
// into a target project directory.
package installer

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Runner installs one package at a concrete version into a project
// directory.
type Runner interface {
	Install(ctx context.Context, name, version, dir string, dev bool) error
}

// NPM runs `npm install` as a subprocess. The target directory is
// passed as the command's working directory; the process-wide working
// directory is never changed, so concurrent use is safe.
type NPM struct {
	// Stdout and Stderr receive the npm subprocess output when set.
	Stdout io.Writer
	Stderr io.Writer

	// command overrides the npm binary name in tests.
	command string
}

// Install runs npm install <name>@<version> [--save-dev] in dir.
func (n *NPM) Install(ctx context.Context, name, version, dir string, dev bool) error {
	bin := n.command
	if bin == "" {
		bin = "npm"
	}

	cmd := exec.CommandContext(ctx, bin, installArgs(name, version, dev)...)
	cmd.Dir = dir
	cmd.Stdout = n.Stdout
	cmd.Stderr = n.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("npm install %s@%s: %w", name, version, err)
	}

	return nil
}

func installArgs(name, version string, dev bool) []string {
	args := []string{"install", name + "@" + version}
	if dev {
		args = append(args, "--save-dev")
	}

	return args
}
