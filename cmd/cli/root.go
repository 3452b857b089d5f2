package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turtacn/claimctl/internal/config"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
)

// errorPrefixAnnotation names the annotation holding the prefix of a command's failure line.
const errorPrefixAnnotation = "claimctl/error-prefix"

// rootOptions holds the state shared by one command tree.
// rootOptions 保存一棵命令树共享的状态。
type rootOptions struct {
	configFile string
	noColor    bool

	viper      *viper.Viper
	out        io.Writer
	errOut     io.Writer
	newService serviceFactory

	// rt is built by the persistent pre-run hook and released after the command returns.
	rt *runtime
}

func newRootOptions(out, errOut io.Writer) *rootOptions {
	return &rootOptions{
		viper:      config.NewViper(),
		out:        out,
		errOut:     errOut,
		newService: defaultServiceFactory,
	}
}

// newRootCmd builds the base command when the `claimctl` binary is called without any subcommands.
// It provides the entry point for the entire CLI application.
// newRootCmd 构建在没有任何子命令的情况下调用 `claimctl` 二进制文件时的基本命令。
// 它为整个 CLI 应用程序提供入口点。
func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "A CLI tool for managing Firebase Authentication custom claims.",
		Long: `claimctl grants and inspects custom claims on Firebase Authentication users
using a service-account credential read from a file, HashiCorp Vault, or Google Secret Manager.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initRuntime(cmd)
		},
	}
	cmd.SetOut(opts.out)
	cmd.SetErr(opts.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is ./claimctl.yaml or $HOME/.config/claimctl/claimctl.yaml)")
	flags.String("credentials", "", "path to the service-account key file")
	flags.String("credential-source", "", "where to read the credential from: file, vault or secretmanager")
	flags.String("project", "", "Firebase project id (defaults to the credential's project)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")

	_ = opts.viper.BindPFlag("credential.path", flags.Lookup("credentials"))
	_ = opts.viper.BindPFlag("credential.source", flags.Lookup("credential-source"))
	_ = opts.viper.BindPFlag("firebase.project_id", flags.Lookup("project"))
	_ = opts.viper.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(newClaimsCmd(opts))
	cmd.AddCommand(newVersionCmd(opts))

	return cmd
}

// initRuntime loads configuration and builds the logger, tracing and metrics for this invocation.
func (o *rootOptions) initRuntime(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.viper, o.configFile)
	if err != nil {
		return err
	}

	ctx := context.WithValue(cmd.Context(), constants.ContextKeyRunID, uuid.NewString())
	rt, err := newRuntime(ctx, cfg, NewPrinter(o.out, o.errOut, !o.noColor), o.errOut)
	if err != nil {
		return err
	}
	o.rt = rt
	cmd.SetContext(ctx)
	return nil
}

// run executes the command tree with args and returns the process exit code.
// Failures are reported on errOut as "<prefix>: <error>".
func run(ctx context.Context, opts *rootOptions, args []string) int {
	root := newRootCmd(opts)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if opts.rt != nil {
		opts.rt.close(context.WithoutCancel(ctx))
	}
	if err == nil {
		return constants.ExitSuccess
	}

	prefix := "Error"
	if cmd != nil && cmd.Annotations[errorPrefixAnnotation] != "" {
		prefix = cmd.Annotations[errorPrefixAnnotation]
	}
	NewPrinter(opts.out, opts.errOut, !opts.noColor).Error("%s: %v", prefix, err)

	return errors.ExitCode(err)
}

// Execute is the main entry point for the CLI application.
// It parses the command-line arguments, executes the appropriate command and returns the exit code.
// SIGINT and SIGTERM cancel the command's context.
// Execute 是 CLI 应用程序的主入口点。
// 它解析命令行参数，执行相应的命令并返回退出码。
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, newRootOptions(os.Stdout, os.Stderr), os.Args[1:])
}
