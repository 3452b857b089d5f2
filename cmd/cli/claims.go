package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
)

// newClaimsCmd is the parent command for custom claim operations.
// newClaimsCmd 是自定义声明操作的父命令。
func newClaimsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "Manage custom claims on Firebase Authentication users",
	}
	cmd.AddCommand(newSetAdminCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	return cmd
}

// newSetAdminCmd represents the `claims set-admin` command.
// It replaces the user's custom claims with {"admin": true}.
// newSetAdminCmd 代表 `claims set-admin` 命令。
// 它将用户的自定义声明替换为 {"admin": true}。
func newSetAdminCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-admin [uid]",
		Short: "Grant the admin claim to a user",
		Long: `Replace the custom claims of the given user with {"admin": true}.
Any other custom claims the user had are removed. The uid may also be
supplied through target.uid in the config file or CLAIMCTL_TARGET_UID.`,
		Example:     "  claimctl claims set-admin 5Oe8NEmjBXa9uxK2Up2up4Jp2Sx2 --credentials ./service-account.json",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{errorPrefixAnnotation: "Error setting admin claim"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := opts.rt
			uid, err := targetUID(args, rt.cfg.Target.UID)
			if err != nil {
				return err
			}

			ctx, cancel := rt.withTimeout(cmd.Context())
			defer cancel()

			svc, err := opts.newService(ctx, rt)
			if err != nil {
				return err
			}

			outcome, err := svc.SetAdminClaim(ctx, uid)
			if err != nil {
				return err
			}

			rt.printer.Success("Successfully set admin claim for user: %s", outcome.UID)
			return nil
		},
	}
}

// newShowCmd represents the `claims show` command. It prints the user's custom claims as JSON.
func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:         "show [uid]",
		Short:       "Print a user's custom claims as JSON",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{errorPrefixAnnotation: "Error reading claims"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := opts.rt
			uid, err := targetUID(args, rt.cfg.Target.UID)
			if err != nil {
				return err
			}

			ctx, cancel := rt.withTimeout(cmd.Context())
			defer cancel()

			svc, err := opts.newService(ctx, rt)
			if err != nil {
				return err
			}

			record, err := svc.ShowClaims(ctx, uid)
			if err != nil {
				return err
			}
			if err := rt.printer.JSON(record); err != nil {
				return errors.NewError(constants.ErrCodeInternal, "Internal error", "failed to encode claims").WithCause(err)
			}
			return nil
		},
	}
}

// targetUID picks the positional argument over the configured target.
func targetUID(args []string, configured string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if configured != "" {
		return configured, nil
	}
	return "", errors.MissingArgument("uid")
}

// withTimeout bounds ctx by firebase.timeout; zero means no deadline.
func (rt *runtime) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if rt.cfg.Firebase.Timeout > 0 {
		return context.WithTimeout(ctx, rt.cfg.Firebase.Timeout)
	}
	return context.WithCancel(ctx)
}
