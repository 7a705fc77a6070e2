/*
Package buffer contains commands converting data between the encodings the
wallet uses.
*/
package buffer

import (
	"fmt"

	"github.com/mochimo/mochiwallet-shell/pkg/buffer"
	"github.com/urfave/cli"
)

// NewCommands returns 'buffer' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "buffer",
		Usage: "binary data conversions",
		Subcommands: []cli.Command{
			{
				Name:      "convert",
				Usage:     "convert data between base64, hex, utf8 and base58 encodings",
				UsageText: "convert --from <encoding> --to <encoding> <data>",
				Action:    convert,
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "from, f",
						Value: string(buffer.UTF8),
						Usage: "input encoding",
					},
					cli.StringFlag{
						Name:  "to, t",
						Value: string(buffer.Hex),
						Usage: "output encoding, unknown ones produce comma-separated byte values",
					},
				},
			},
			{
				Name:   "encodings",
				Usage:  "list supported encodings",
				Action: listEncodings,
			},
		},
	}}
}

var registry = buffer.NewRegistry(buffer.Base58)

func convert(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("exactly one data argument is required", 1)
	}
	b, err := registry.From(ctx.Args().First(), buffer.Encoding(ctx.String("from")))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, registry.ToString(b, buffer.Encoding(ctx.String("to"))))
	return nil
}

func listEncodings(ctx *cli.Context) error {
	for _, enc := range registry.Encodings() {
		fmt.Fprintln(ctx.App.Writer, enc)
	}
	return nil
}
