package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/domain/account"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// NewAccountCommand creates the account command with subcommands
func NewAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage users, characters and recorded stock",
		Long: `Register the users that own projects, the characters whose industry jobs
are reconciled against them, and on-hand stock used to net shopping lists.

Examples:
  industry account add-user --id 1 --name alice
  industry account add-character --user-id 1 --id 90000001 --name "Alice Miner" --token <access-token>
  industry account characters --user-id 1
  industry account set-stock --user-id 1 --item 34 --quantity 150000`,
	}

	cmd.AddCommand(newAccountAddUserCommand())
	cmd.AddCommand(newAccountAddCharacterCommand())
	cmd.AddCommand(newAccountListCharactersCommand())
	cmd.AddCommand(newAccountSetStockCommand())

	return cmd
}

func newAccountAddUserCommand() *cobra.Command {
	var (
		id   int
		name string
	)

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := shared.NewUserID(id)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				if err := app.Users.Add(ctx, account.NewUser(uid, name)); err != nil {
					return err
				}
				fmt.Printf("✓ User %d (%s) registered\n", id, name)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "User ID")
	cmd.Flags().StringVar(&name, "name", "", "User name")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newAccountAddCharacterCommand() *cobra.Command {
	var (
		id          int64
		name, token string
	)

	cmd := &cobra.Command{
		Use:   "add-character",
		Short: "Register a character whose jobs count toward the user's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				owner, err := shared.NewUserID(raw)
				if err != nil {
					return err
				}
				if _, err := app.Users.FindByID(ctx, owner); err != nil {
					return err
				}
				if err := app.Characters.Add(ctx, account.NewCharacter(id, owner, name, token)); err != nil {
					return err
				}
				fmt.Printf("✓ Character %d (%s) registered for user %d\n", id, name, raw)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Character ID")
	cmd.Flags().StringVar(&name, "name", "", "Character name")
	cmd.Flags().StringVar(&token, "token", "", "API access token for the character's industry jobs")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newAccountListCharactersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List a user's characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := resolveUserID()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, app *App) error {
				owner, err := shared.NewUserID(raw)
				if err != nil {
					return err
				}
				characters, err := app.Characters.FindByOwner(ctx, owner)
				if err != nil {
					return err
				}
				w := newTable()
				fmt.Fprintln(w, "ID\tNAME\tTOKEN")
				for _, c := range characters {
					token := "missing"
					if c.AccessToken != "" {
						token = "set"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, orDash(c.Name), token)
				}
				return w.Flush()
			})
		},
	}
}

func newAccountSetStockCommand() *cobra.Command {
	var itemID, quantity int

	cmd := &cobra.Command{
		Use:   "set-stock",
		Short: "Record the on-hand quantity of an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := resolveUserID()
			if err != nil {
				return err
			}
			if quantity < 0 {
				return shared.NewValidationError("quantity", "must not be negative")
			}
			return withApp(func(ctx context.Context, app *App) error {
				owner, err := shared.NewUserID(raw)
				if err != nil {
					return err
				}
				if err := app.Stock.Upsert(ctx, owner, itemID, quantity); err != nil {
					return err
				}
				fmt.Printf("✓ Stock of item %d set to %d\n", itemID, quantity)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&itemID, "item", 0, "Item ID")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "On-hand quantity")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
