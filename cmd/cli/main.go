// Package main provides the administration CLI of the backend. It works
// directly on the database:
//  1. reconcile: compares the raised amount of the campaigns with their
//     completed donations, optionally fixing the drift
//  2. locales import: loads a YAML file of localized strings
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/donations"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/localization"
	"github.com/raiseyourvoice/backend/stripe"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.vocdoni.io/dvote/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ryv-cli",
		Short: "RaiseYourVoice administration tool",
		PersistentPreRun: func(*cobra.Command, []string) {
			log.Init(viper.GetString("log-level"), "stdout", nil)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("mongo-url", "m", "", "MongoDB connection URL")
	rootCmd.PersistentFlags().StringP("mongo-db", "d", "raiseyourvoice", "MongoDB database name")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	viper.SetEnvPrefix("RYV")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.Fatalf("could not bind flags: %v", err)
	}
	viper.AutomaticEnv()

	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(localesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*db.MongoStorage, error) {
	return db.New(viper.GetString("mongo-url"), viper.GetString("mongo-db"))
}

func reconcileCmd() *cobra.Command {
	var (
		campaign string
		fix      bool
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check the raised amount of the campaigns against their donations",
		Long: `Compares the stored raised amount of every campaign, or only the given one,
with the sum of its completed donations and prints the campaigns that differ.

Examples:
  ryv-cli reconcile
  ryv-cli reconcile --campaign 65a1f0c2e4b0a1b2c3d4e5f6 --fix`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var campaignID internal.ObjectID
			if campaign != "" {
				id, err := internal.ObjectIDFromHex(campaign)
				if err != nil {
					return fmt.Errorf("invalid campaign id: %w", err)
				}
				campaignID = id
			}
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()
			// reconciling never reaches the payment gateway
			service, err := donations.New(&donations.Config{
				DB:      database,
				Gateway: stripe.NewClient(&stripe.Config{}),
			})
			if err != nil {
				return err
			}
			drifts, err := service.Reconcile(cmd.Context(), campaignID, fix)
			if err != nil {
				return err
			}
			if len(drifts) == 0 {
				fmt.Println("no drift found")
				return nil
			}
			out, err := json.MarshalIndent(drifts, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&campaign, "campaign", "", "only check this campaign (hex id)")
	cmd.Flags().BoolVar(&fix, "fix", false, "overwrite the stored amount with the computed one")
	return cmd
}

func localesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locales",
		Short: "Manage the localized strings",
	}
	var (
		overwrite bool
		languages []string
	)
	importCmd := &cobra.Command{
		Use:   "import <lang> <file>",
		Short: "Import a YAML file of localized strings",
		Long: `Loads the YAML file into the given language. Nested keys are joined with dots.
Existing keys are kept unless --overwrite is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()
			service, err := localization.New(&localization.Config{DB: database, Languages: languages})
			if err != nil {
				return err
			}
			n, err := service.Import(cmd.Context(), args[0], f, overwrite)
			if err != nil {
				return err
			}
			fmt.Printf("%d keys written to %s\n", n, args[0])
			return nil
		},
	}
	importCmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace the existing values")
	importCmd.Flags().StringSliceVar(&languages, "languages", localization.DefaultLanguages, "supported languages")
	cmd.AddCommand(importCmd)
	return cmd
}
