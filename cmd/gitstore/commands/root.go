package commands

import (
	"context"
	"fmt"
	"os"

	"gitstore/pkg/app"
	"gitstore/pkg/config"
	"gitstore/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// state is shared by one command tree. It replaces package-level globals
// so that trees built in tests do not leak into each other.
type state struct {
	cfgFile string
	v       *viper.Viper
	log     *zap.Logger
	app     *app.App
}

// Execute runs the gitstore command tree.
func Execute(ctx context.Context) error {
	cmd, st := newRootCmd()
	return execute(ctx, cmd, st)
}

// execute runs cmd and releases what st acquired. cobra skips post-run
// hooks when a command fails, so the release happens here.
func execute(ctx context.Context, cmd *cobra.Command, st *state) (err error) {
	defer func() {
		if cerr := st.close(); err == nil {
			err = cerr
		}
	}()
	return cmd.ExecuteContext(ctx)
}

// newRootCmd builds the gitstore command tree and the state it shares.
func newRootCmd() (*cobra.Command, *state) {
	st := &state{}

	rootCmd := &cobra.Command{
		Use:           "gitstore",
		Short:         "gitstore: content-addressed object store with a git-compatible layout",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&st.cfgFile, "config", "", "config file (default is $HOME/.gitstore/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(st),
		newHashObjectCmd(st),
		newCatFileCmd(st),
		newFsckCmd(st),
	)
	return rootCmd, st
}

// load reads the tool configuration and builds the logger.
func (st *state) load(cmd *cobra.Command) error {
	v, err := config.Load(st.cfgFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("logger.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}

	log, err := logger.NewLogger(v)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	st.v = v
	st.log = log
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug("using config file", zap.String("path", used))
	}
	return nil
}

// repository opens the repository enclosing the working directory.
func (st *state) repository(cmd *cobra.Command) (*app.App, error) {
	if st.app != nil {
		return st.app, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	a, err := app.New(cmd.Context(), st.v, wd, st.log)
	if err != nil {
		return nil, err
	}
	st.app = a
	return a, nil
}

func (st *state) close() error {
	var err error
	if st.app != nil {
		err = st.app.Close()
		st.app = nil
	}
	if st.log != nil {
		_ = st.log.Sync()
		st.log = nil
	}
	return err
}
