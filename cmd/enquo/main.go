// Package main provides a demo command-line interface exercising the
// enquo-core encryption and decryption paths end to end.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	enquo "github.com/allisson/enquo-core"
	"github.com/allisson/enquo-core/internal/config"
)

func main() {
	cmd := &cli.Command{
		Name:    "enquo",
		Usage:   "Demo CLI for queryable field-level encryption",
		Version: "1.0.0",
		Commands: []*cli.Command{
			createRootKeyCommand(),
			keyIDCommand(),
			encryptCommand(),
			decryptCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("enquo command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// runCreateRootKey generates a new root secret and prints it in the
// format expected by ENQUO_ROOT_KEY.
//
// The key is generated using crypto/rand.Read and is immediately
// zeroed from memory once encoded.
func runCreateRootKey() error {
	rootKey := make([]byte, 32)
	if _, err := rand.Read(rootKey); err != nil {
		return fmt.Errorf("failed to generate root key: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(rootKey)
	enquo.Zero(rootKey)

	fmt.Println("# Root key configuration")
	fmt.Println("# Copy this environment variable to your .env file or secrets manager")
	fmt.Println()
	fmt.Printf("ENQUO_ROOT_KEY=\"%s\"\n", encoded)

	return nil
}

func createRootKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-root-key",
		Usage: "Generate a new root secret for ENQUO_ROOT_KEY",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCreateRootKey()
		},
	}
}

func relationNameFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "relation", Required: true, Usage: "Table or entity name the field belongs to"},
		&cli.StringFlag{Name: "name", Required: true, Usage: "Field name within the relation"},
		&cli.StringFlag{Name: "context", Value: "", Usage: "Additional authenticated context bound to the ciphertext"},
	}
}

func loadField(relation, name string) (*enquo.Field, error) {
	cfg := config.Load()

	provider, err := enquo.NewStaticKeyProvider(cfg.RootKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load root key: %w", err)
	}

	root, err := enquo.NewRoot(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize root: %w", err)
	}

	field, err := root.Field([]byte(relation), []byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to derive field: %w", err)
	}

	return field, nil
}

func keyIDCommand() *cli.Command {
	return &cli.Command{
		Name:  "key-id",
		Usage: "Print the key identifier for a (relation, name) field",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "relation", Required: true},
			&cli.StringFlag{Name: "name", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			field, err := loadField(cmd.String("relation"), cmd.String("name"))
			if err != nil {
				return err
			}
			defer field.Close()

			fmt.Println(base64.StdEncoding.EncodeToString(field.KeyID()[:]))
			return nil
		},
	}
}

func parseMode(modeFlag string, orderablePrefix int64, unsafe bool) (enquo.Mode, error) {
	switch modeFlag {
	case "default":
		return enquo.ModeDefault, nil
	case "no-query":
		return enquo.ModeNoQuery, nil
	case "unsafe":
		return enquo.ModeUnsafe, nil
	case "orderable":
		mode, err := enquo.NewOrderableMode(int(orderablePrefix))
		if err != nil {
			return enquo.Mode{}, err
		}
		if unsafe {
			mode = mode.WithUnsafe()
		}
		return mode, nil
	default:
		return enquo.Mode{}, fmt.Errorf("unknown mode: %s (valid options: default, no-query, unsafe, orderable)", modeFlag)
	}
}

func modeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "mode", Value: "default", Usage: "default, no-query, unsafe, or orderable"},
		&cli.IntFlag{Name: "orderable-prefix", Value: 3, Usage: "number of leading code points in the ordering index when --mode=orderable"},
		&cli.BoolFlag{Name: "unsafe", Value: false, Usage: "acknowledge exposure of order-revealing tokens"},
	}
}

func encryptCommand() *cli.Command {
	flags := append(relationNameFlags(), modeFlags()...)
	flags = append(flags,
		&cli.StringFlag{Name: "type", Required: true, Usage: "bool, i64, date, or text"},
		&cli.StringFlag{Name: "value", Required: true, Usage: "value to encrypt (date as YYYY-MM-DD)"},
	)

	return &cli.Command{
		Name:  "encrypt",
		Usage: "Encrypt a value for a (relation, name) field",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			field, err := loadField(cmd.String("relation"), cmd.String("name"))
			if err != nil {
				return err
			}
			defer field.Close()

			mode, err := parseMode(cmd.String("mode"), cmd.Int("orderable-prefix"), cmd.Bool("unsafe"))
			if err != nil {
				return err
			}

			aad := []byte(cmd.String("context"))

			ciphertext, err := encryptValue(field, cmd.String("type"), cmd.String("value"), aad, mode)
			if err != nil {
				return err
			}

			fmt.Println(base64.StdEncoding.EncodeToString(ciphertext))
			return nil
		},
	}
}

func encryptValue(field *enquo.Field, typ, value string, aad []byte, mode enquo.Mode) ([]byte, error) {
	switch typ {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid bool value: %w", err)
		}
		return field.EncryptBool(b, aad, mode)
	case "i64":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid i64 value: %w", err)
		}
		return field.EncryptI64(n, aad, mode)
	case "date":
		year, month, day, err := parseDate(value)
		if err != nil {
			return nil, err
		}
		return field.EncryptDate(year, month, day, aad, mode)
	case "text":
		return field.EncryptText(value, aad, mode)
	default:
		return nil, fmt.Errorf("unknown type: %s (valid options: bool, i64, date, text)", typ)
	}
}

func decryptCommand() *cli.Command {
	flags := append(relationNameFlags(),
		&cli.StringFlag{Name: "type", Required: true, Usage: "bool, i64, date, or text"},
		&cli.StringFlag{Name: "ciphertext", Required: true, Usage: "base64-encoded ciphertext"},
	)

	return &cli.Command{
		Name:  "decrypt",
		Usage: "Decrypt a ciphertext for a (relation, name) field",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			field, err := loadField(cmd.String("relation"), cmd.String("name"))
			if err != nil {
				return err
			}
			defer field.Close()

			ciphertext, err := base64.StdEncoding.DecodeString(cmd.String("ciphertext"))
			if err != nil {
				return fmt.Errorf("invalid base64 ciphertext: %w", err)
			}

			aad := []byte(cmd.String("context"))

			out, err := decryptValue(field, cmd.String("type"), ciphertext, aad)
			if err != nil {
				return err
			}

			fmt.Println(out)
			return nil
		},
	}
}

func decryptValue(field *enquo.Field, typ string, ciphertext, aad []byte) (string, error) {
	switch typ {
	case "bool":
		b, err := field.DecryptBool(ciphertext, aad)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case "i64":
		n, err := field.DecryptI64(ciphertext, aad)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case "date":
		year, month, day, err := field.DecryptDate(ciphertext, aad)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
	case "text":
		return field.DecryptText(ciphertext, aad)
	default:
		return "", fmt.Errorf("unknown type: %s (valid options: bool, i64, date, text)", typ)
	}
}

func parseDate(value string) (int16, uint8, uint8, error) {
	var year int
	var month, day uint8
	n, err := fmt.Sscanf(value, "%d-%d-%d", &year, &month, &day)
	if err != nil || n != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return int16(year), month, day, nil
}
