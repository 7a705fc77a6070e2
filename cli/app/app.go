package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mochimo/mochiwallet-shell/cli/buffer"
	"github.com/mochimo/mochiwallet-shell/cli/storage"
	"github.com/mochimo/mochiwallet-shell/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "Mochi Wallet shell\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a mochi-shell instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "mochi-shell"
	ctl.Version = config.Version
	ctl.Usage = "Mochi Wallet mobile host compatibility tools"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, storage.NewCommands()...)
	ctl.Commands = append(ctl.Commands, buffer.NewCommands()...)
	return ctl
}
