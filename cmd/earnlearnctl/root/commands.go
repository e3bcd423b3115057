package root

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/earnlearn/internal/database"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/money"
	"github.com/dukerupert/earnlearn/internal/push"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// open() already migrated
			v, err := database.Version(a.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", v)
			return nil
		},
	}
}

func newAddChildCmd(a *app) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "add-child <name>",
		Short: "Register a child",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			child, err := a.svc.CreateChild(cmd.Context(), args[0], code)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s (id %d, code %s)\n", child.AvatarEmoji, child.Name, child.ID, child.Code)
			return nil
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "Login code (letters and digits)")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func newAddUserCmd(a *app) *cobra.Command {
	var role string
	var childID int64
	var password string
	cmd := &cobra.Command{
		Use:   "add-user <username>",
		Short: "Create a parent or child login",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("username is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseRole(role)
			if err != nil {
				return err
			}
			var link *int64
			if r == model.RoleChild {
				if childID == 0 {
					return errors.New("--child is required for child accounts")
				}
				link = &childID
			}
			acct, err := a.svc.CreateAccount(cmd.Context(), args[0], password, r, link)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %q (id %d)\n", acct.Role, acct.Username, acct.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "parent", "Account role (parent|child)")
	cmd.Flags().Int64Var(&childID, "child", 0, "Child ID for child accounts")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPaydayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "payday",
		Short: "Pay interest and open settlements for every child with points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.svc.Payday(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no children with points; nothing to do")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "child %d: interest %s, settlement pending\n", e.ChildID, money.Format(e.Amount))
			}
			return nil
		},
	}
}

func newSpawnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spawn",
		Short: "Create due recurring task instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spawned, err := a.svc.SpawnDue(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range spawned {
				fmt.Fprintf(out, "spawned %q for child %d (task %d)\n", t.Name, t.AssignedTo, t.ID)
			}
			fmt.Fprintf(out, "%d instance(s) spawned\n", len(spawned))
			return nil
		},
	}
}

func newLeaderboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show children ranked by points earned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.svc.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tNAME\tPOINTS\tTASKS")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s %s\t%d\t%d\n", e.Rank, e.AvatarEmoji, e.Name, e.EarnedPoints, e.CompletedTasks)
			}
			return w.Flush()
		},
	}
}

func newVAPIDKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "vapid-keys",
		Short:       "Generate a VAPID key pair for web push",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"db": "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, priv, err := push.GenerateVAPIDKeys()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "EARNLEARN_VAPID_PUBLIC_KEY=%s\n", pub)
			fmt.Fprintf(out, "EARNLEARN_VAPID_PRIVATE_KEY=%s\n", priv)
			return nil
		},
	}
}
