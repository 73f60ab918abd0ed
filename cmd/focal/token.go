package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/focalhq/focal/internal/api"
	"github.com/focalhq/focal/internal/config"
	"github.com/focalhq/focal/internal/store"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var tokenDBOverride string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens",
	Long:  "Issue, list, and revoke API tokens without running the server.",
}

func init() {
	tokenCmd.PersistentFlags().StringVar(&tokenDBOverride, "db", "",
		"Database path (overrides config and FOCAL_DB_PATH)")

	tokenCreateCmd.Flags().String("owner", "", "Attach the token to an existing owner id")

	tokenCmd.AddCommand(tokenCreateCmd)
	tokenCmd.AddCommand(tokenListCmd)
	tokenCmd.AddCommand(tokenRevokeCmd)

	rootCmd.AddCommand(tokenCmd)
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create [label]",
	Short: "Issue a new API token",
	Long:  "Issues a token for a new or existing owner. The plaintext token is printed once and never stored.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := "default"
		if len(args) > 0 {
			label = args[0]
		}

		ownerID, _ := cmd.Flags().GetString("owner")
		if ownerID == "" {
			ownerID = ulid.Make().String()
		}

		db, err := openTokenStore()
		if err != nil {
			return err
		}
		defer db.Close()

		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		token := hex.EncodeToString(raw)

		if err := db.CreateToken(cmd.Context(), api.HashToken(token), ownerID, label); err != nil {
			return err
		}

		fmt.Printf("Owner:  %s\n", ownerID)
		fmt.Printf("Label:  %s\n", label)
		fmt.Printf("Token:  %s\n", token)
		fmt.Println("\nStore this token now; it cannot be recovered later.")
		return nil
	},
}

var tokenListCmd = &cobra.Command{
	Use:   "list <owner-id>",
	Short: "List an owner's tokens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openTokenStore()
		if err != nil {
			return err
		}
		defer db.Close()

		tokens, err := db.ListTokens(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "HASH\tLABEL\tCREATED\tSTATUS")
		for _, t := range tokens {
			status := "active"
			if t.RevokedAt != nil {
				status = "revoked"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				t.TokenHash[:12], t.Label, t.CreatedAt.Format("2006-01-02"), status)
		}
		return w.Flush()
	},
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Revoke a token by its plaintext value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openTokenStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.RevokeToken(cmd.Context(), api.HashToken(args[0])); err != nil {
			return err
		}

		fmt.Println("Token revoked.")
		return nil
	},
}

// openTokenStore resolves the database path with the --db override taking
// precedence over configuration.
func openTokenStore() (*store.SQLiteStore, error) {
	path := tokenDBOverride
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		path = cfg.Database.Path
	}
	return store.NewSQLiteStore(path)
}
