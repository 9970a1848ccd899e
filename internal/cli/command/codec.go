package command

import (
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/tokenkit/pkg/codec"
)

type codecResult struct {
	Scheme codec.Scheme `json:"scheme"`
	Output string       `json:"output"`
	Binary bool         `json:"binary,omitempty"`
}

func (r codecResult) Text() string { return r.Output }

func schemeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "scheme",
		Aliases: []string{"s"},
		Usage:   "Encoding scheme: base64, base64url, base32, hex",
		Value:   string(codec.Base64),
	}
}

// EncodeCommand encodes an argument or stdin.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode text with the selected scheme",
		ArgsUsage: "[text]",
		Flags:     []cli.Flag{schemeFlag()},
		Action: func(c *cli.Context) error {
			scheme, err := codec.ParseScheme(c.String("scheme"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			in, err := input(c)
			if err != nil {
				return err
			}
			out, err := codec.Encode(scheme, []byte(in))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return render(c, codecResult{Scheme: scheme, Output: out})
		},
	}
}

// DecodeCommand decodes an argument or stdin. Output that is not valid UTF-8
// is printed as hex and flagged binary.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode text with the selected scheme",
		ArgsUsage: "[encoded]",
		Flags:     []cli.Flag{schemeFlag()},
		Action: func(c *cli.Context) error {
			scheme, err := codec.ParseScheme(c.String("scheme"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			in, err := input(c)
			if err != nil {
				return err
			}
			raw, err := codec.Decode(scheme, in)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			res := codecResult{Scheme: scheme, Output: string(raw)}
			if !utf8.Valid(raw) {
				res.Output = codec.EncodeHex(raw)
				res.Binary = true
			}
			return render(c, res)
		},
	}
}
