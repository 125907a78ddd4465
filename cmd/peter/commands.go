package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/crepererum/peter"
	"github.com/crepererum/peter/internal/cliio"
)

var genCmd = &cobra.Command{
	Use:   "gen [OUT]",
	Short: "Generate a private key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := arg(args, 0, "-")

		priv, err := peter.GenerateKey()
		if err != nil {
			return err
		}

		return cliio.WriteKey(out, priv, cliio.PrivateKey)
	},
}

var pubCmd = &cobra.Command{
	Use:   "pub [IN [OUT]]",
	Short: "Derive a public key from a private key",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := arg(args, 0, "-")
		out := arg(args, 1, "-")

		priv, err := cliio.ReadKey(in, cliio.PrivateKey)
		if err != nil {
			return err
		}
		pub, err := peter.ExtractPubkey(priv)
		if err != nil {
			return err
		}
		return cliio.WriteKey(out, pub, cliio.PublicKey)
	},
}

var flagV1 bool

func init() {
	encCmd.Flags().BoolVar(&flagV1, "v1", false, "use the legacy length-prefixed V1 wire format instead of V2")
	decCmd.Flags().BoolVar(&flagV1, "v1", false, "decode the legacy length-prefixed V1 wire format instead of V2")
}

var encCmd = &cobra.Command{
	Use:   "enc PRIV PUB INFILE [OUT]",
	Short: "Encrypt a file for a recipient, authenticating as PRIV",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		privName, pubName, inFile := args[0], args[1], args[2]
		out := arg(args, 3, "-")

		if cliio.IsStdInOut(inFile) {
			return fmt.Errorf("%w: enc does not read its input file from stdin", peter.ErrUsage)
		}
		if err := checkSingleStdin(privName, pubName, inFile); err != nil {
			return err
		}

		priv, err := cliio.ReadKey(privName, cliio.PrivateKey)
		if err != nil {
			return err
		}
		pub, err := cliio.ReadKey(pubName, cliio.PublicKey)
		if err != nil {
			return err
		}

		in, err := cliio.OpenReader(inFile)
		if err != nil {
			return err
		}
		defer in.Close()

		w, err := cliio.OpenWriter(out)
		if err != nil {
			return err
		}
		defer w.Close()

		if flagV1 {
			log.Debug().Msg("encrypting with legacy V1 wire format")
			return peter.EncryptV1(w, in, priv, pub)
		}
		return peter.EncryptV2(w, in, priv, pub)
	},
}

var decCmd = &cobra.Command{
	Use:   "dec PRIV [PUB [INFILE [OUT [FOUNDKEY]]]]",
	Short: "Decrypt a file, optionally verifying the sender",
	Args:  cobra.RangeArgs(1, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		privName := args[0]
		pubName := arg(args, 1, ".")
		inFile := arg(args, 2, "-")
		out := arg(args, 3, "-")
		foundKeyName := arg(args, 4, ".")

		if err := checkSingleStdin(privName, pubName, inFile); err != nil {
			return err
		}
		if err := checkSingleStdout(out, foundKeyName); err != nil {
			return err
		}

		priv, err := cliio.ReadKey(privName, cliio.PrivateKey)
		if err != nil {
			return err
		}
		expectedSender, err := cliio.ReadKey(pubName, cliio.PublicKey)
		if err != nil {
			return err
		}

		in, err := cliio.OpenReader(inFile)
		if err != nil {
			return err
		}
		defer in.Close()

		w, err := cliio.OpenWriter(out)
		if err != nil {
			return err
		}
		defer w.Close()

		var sender []byte
		if flagV1 {
			sender, err = peter.DecryptV1(w, in, priv, expectedSender)
		} else {
			sender, err = peter.DecryptV2(w, in, priv, expectedSender)
		}
		if err != nil {
			return err
		}

		return cliio.WriteKey(foundKeyName, sender, cliio.PublicKey)
	},
}

// arg returns args[i] if present, otherwise def.
func arg(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}

// checkSingleStdin enforces that at most one of the given
// input/key names consumes stdin.
func checkSingleStdin(names ...string) error {
	count := 0
	for _, n := range names {
		if cliio.IsStdInOut(n) {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("%w: at most one of the input/key parameters may read from stdin (\"-\")", peter.ErrUsage)
	}
	return nil
}

// checkSingleStdout enforces that at most one of the given output
// names produces to stdout.
func checkSingleStdout(names ...string) error {
	count := 0
	for _, n := range names {
		if cliio.IsStdInOut(n) {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("%w: at most one of OUT, FOUNDKEY may write to stdout (\"-\")", peter.ErrUsage)
	}
	return nil
}
