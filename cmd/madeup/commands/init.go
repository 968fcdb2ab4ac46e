package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/madeup/internal/config"
	derrors "git.home.luguber.info/inful/madeup/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Root  string `arg:"" optional:"" default:"." help:"Site root to initialize"`
	Force bool   `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	return RunInit(i.Root, i.Force, os.Stdout)
}

func RunInit(root string, force bool, w io.Writer) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return derrors.FileSystemError("abs", root, err)
	}
	path, err := config.Init(abs, force)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
