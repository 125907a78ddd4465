// Command peter encrypts and decrypts files one at a time using the
// Noise_X_25519_ChaChaPoly_BLAKE2s handshake: "gen" creates a keypair,
// "pub" derives a public key from a private key, "enc" encrypts, and
// "dec" decrypts.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:           "peter",
	Short:         "File-at-a-time authenticated encryption over a Noise X handshake",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(genCmd, pubCmd, encCmd, decCmd)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	cobra.OnInitialize(func() {
		if flagVerbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("peter failed")
		os.Exit(1)
	}
}
