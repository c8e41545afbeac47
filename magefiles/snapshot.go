//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Snapshot builds the CLI and pulls a fresh local snapshot of the sheet.
func Snapshot() error {
	mg.Deps(Build)

	cmd := exec.Command(filepath.Join(binDir, binName), "kb", "pull")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
