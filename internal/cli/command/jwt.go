package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/tokenkit/pkg/jwt"
)

type tokenResult struct {
	Token     string      `json:"token"`
	Payload   jwt.Payload `json:"payload"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
}

func (r tokenResult) Text() string { return r.Token }

type pairResult struct {
	jwt.TokenPair
}

func (r pairResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "access_token:  %s\n", r.AccessToken)
	fmt.Fprintf(&b, "refresh_token: %s", r.RefreshToken)
	if r.AccessExpiresAt != nil {
		fmt.Fprintf(&b, "\naccess_expires_at:  %s", r.AccessExpiresAt.Format(time.RFC3339))
	}
	if r.RefreshExpiresAt != nil {
		fmt.Fprintf(&b, "\nrefresh_expires_at: %s", r.RefreshExpiresAt.Format(time.RFC3339))
	}
	return b.String()
}

type decodeResult struct {
	*jwt.DecodedToken
	Expired bool `json:"expired"`
}

func (r decodeResult) Text() string {
	header, _ := json.MarshalIndent(r.Header, "", "  ")
	payload, _ := json.MarshalIndent(r.Payload, "", "  ")
	return fmt.Sprintf("header:\n%s\npayload:\n%s\nsignature: %s\nexpired: %t",
		header, payload, r.Signature, r.Expired)
}

type verifyResult struct {
	Valid   bool `json:"valid"`
	Expired bool `json:"expired"`
}

func (r verifyResult) Text() string {
	switch {
	case !r.Valid:
		return "invalid signature"
	case r.Expired:
		return "valid signature, token expired"
	}
	return "valid"
}

func secretFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "secret",
		Aliases:  []string{"s"},
		Usage:    "HMAC secret",
		EnvVars:  []string{"TOKENKIT_SECRET"},
		Required: true,
	}
}

// JWTCommand groups the HS256 token tools.
func JWTCommand() *cli.Command {
	return &cli.Command{
		Name:  "jwt",
		Usage: "Create, decode and verify HS256 tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Sign a payload",
				Flags: []cli.Flag{
					secretFlag(),
					&cli.StringFlag{
						Name:    "payload",
						Aliases: []string{"p"},
						Usage:   "Payload as a JSON object of scalar values",
					},
					&cli.StringSliceFlag{
						Name:    "claim",
						Aliases: []string{"c"},
						Usage:   "String claim as key=value, repeatable; overrides --payload",
					},
					&cli.DurationFlag{
						Name:    "expires-in",
						Aliases: []string{"e"},
						Usage:   "Lifetime; zero means no expiry",
					},
					&cli.BoolFlag{
						Name:  "pair",
						Usage: "Also create a refresh token",
					},
				},
				Action: jwtCreate,
			},
			{
				Name:      "decode",
				Usage:     "Show header and payload without checking the signature",
				ArgsUsage: "[token]",
				Action:    jwtDecode,
			},
			{
				Name:      "verify",
				Usage:     "Check the signature; exits 1 when invalid",
				ArgsUsage: "[token]",
				Flags:     []cli.Flag{secretFlag()},
				Action:    jwtVerify,
			},
		},
	}
}

func jwtCreate(c *cli.Context) error {
	payload, err := parsePayload(c.String("payload"), c.StringSlice("claim"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if err := payload.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	engine := jwt.NewEngine()
	secret := c.String("secret")
	expiresIn := c.Duration("expires-in")

	if c.Bool("pair") {
		pair, err := engine.GeneratePair(c.Context, payload, secret, expiresIn)
		if err != nil {
			return err
		}
		return render(c, pairResult{pair})
	}

	token, err := engine.Create(c.Context, payload, secret, expiresIn)
	if err != nil {
		return err
	}
	res := tokenResult{Token: token, Payload: payload}
	if decoded, ok := jwt.Decode(token); ok {
		res.Payload = decoded.Payload
		if exp, ok := decoded.Payload.ExpiresAt(); ok {
			t := time.Unix(exp, 0).UTC()
			res.ExpiresAt = &t
		}
	}
	return render(c, res)
}

func jwtDecode(c *cli.Context) error {
	token, err := input(c)
	if err != nil {
		return err
	}
	decoded, ok := jwt.Decode(strings.TrimSpace(token))
	if !ok {
		return cli.Exit("malformed token", 1)
	}
	return render(c, decodeResult{
		DecodedToken: decoded,
		Expired:      decoded.Payload.Expired(time.Now()),
	})
}

func jwtVerify(c *cli.Context) error {
	token, err := input(c)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)

	valid, err := jwt.NewEngine().Verify(c.Context, token, c.String("secret"))
	if err != nil {
		return err
	}

	res := verifyResult{Valid: valid}
	if decoded, ok := jwt.Decode(token); ok && valid {
		res.Expired = decoded.Payload.Expired(time.Now())
	}
	if err := render(c, res); err != nil {
		return err
	}
	if !valid {
		return cli.Exit("", 1)
	}
	return nil
}

// parsePayload merges a JSON object with key=value string claims.
func parsePayload(raw string, claims []string) (jwt.Payload, error) {
	payload := jwt.Payload{}
	if strings.TrimSpace(raw) != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("invalid --payload: %w", err)
		}
	}
	for _, kv := range claims {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --claim %q: want key=value", kv)
		}
		payload[k] = v
	}
	return payload, nil
}
