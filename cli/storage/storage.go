/*
Package storage contains commands inspecting and editing the wallet store
through the extension storage API.
*/
package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mochimo/mochiwallet-shell/cli/options"
	"github.com/mochimo/mochiwallet-shell/pkg/chrome/storage"
	"github.com/mochimo/mochiwallet-shell/pkg/compat"
	"github.com/mochimo/mochiwallet-shell/pkg/serializer"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var errNoKey = errors.New("no key specified")

// NewCommands returns 'storage' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "storage",
		Usage: "inspect and edit wallet storage",
		Subcommands: []cli.Command{
			{
				Name:      "get",
				Usage:     "print stored items (all of them if no key is given)",
				UsageText: "get [--config-file file] [key...]",
				Action:    getItems,
				Flags:     options.Common,
			},
			{
				Name:      "set",
				Usage:     "store a JSON value, binary values are written as {\"__type\":\"Uint8Array\",\"__data\":[...]}",
				UsageText: "set [--config-file file] <key> <json>",
				Action:    setItem,
				Flags:     options.Common,
			},
			{
				Name:      "remove",
				Usage:     "remove items",
				UsageText: "remove [--config-file file] <key>...",
				Action:    removeItems,
				Flags:     options.Common,
			},
			{
				Name:      "clear",
				Usage:     "remove every item",
				UsageText: "clear [--config-file file]",
				Action:    clearItems,
				Flags:     options.Common,
			},
			{
				Name:      "list",
				Usage:     "list stored keys with their size in bytes",
				UsageText: "list [--config-file file]",
				Action:    listItems,
				Flags:     options.Common,
			},
		},
	}}
}

func newEnvironment(ctx *cli.Context) (*compat.Environment, func(), error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	log, _, logCloser, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, nil, err
	}
	env, err := compat.New(cfg.ApplicationConfiguration, compat.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return env, func() {
		if err := env.Close(); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
		_ = log.Sync()
		if logCloser != nil {
			_ = logCloser()
		}
	}, nil
}

func getItems(ctx *cli.Context) error {
	env, closer, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	var keys storage.Keys
	if ctx.NArg() != 0 {
		keys = storage.KeyList(ctx.Args())
	}
	items := env.Chrome.Storage.Local.Get(keys)
	names := make([]string, 0, len(items))
	for k := range items {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		text, err := serializer.Serialize(items[k])
		if err != nil {
			return cli.NewExitError(fmt.Errorf("can't encode %s: %w", k, err), 1)
		}
		fmt.Fprintf(ctx.App.Writer, "%s: %s\n", k, text)
	}
	return nil
}

func setItem(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError("key and value are required", 1)
	}
	value, err := serializer.Deserialize(ctx.Args().Get(1))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid value: %w", err), 1)
	}
	env, closer, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	env.Chrome.Storage.Local.Set(storage.Items{ctx.Args().First(): value})
	return nil
}

func removeItems(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError(errNoKey, 1)
	}
	env, closer, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	env.Chrome.Storage.Local.Remove(ctx.Args()...)
	return nil
}

func clearItems(ctx *cli.Context) error {
	env, closer, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	env.Chrome.Storage.Local.Clear()
	return nil
}

func listItems(ctx *cli.Context) error {
	env, closer, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	env.Store().Seek("", func(k, v string) bool {
		fmt.Fprintf(ctx.App.Writer, "%s\t%d\n", k, len(v))
		return true
	})
	fmt.Fprintf(ctx.App.Writer, "total\t%d\n", env.Chrome.Storage.Local.GetBytesInUse())
	return nil
}
