package commands

import (
	"fmt"

	"gitstore/pkg/repo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new, empty repository",
		Long:  `Create the metadata directory, object store, refs, HEAD and config for a new repository (default: current directory).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			r, err := repo.Initialize(path)
			if err != nil {
				return err
			}

			st.log.Info("repository initialized", zap.String("gitdir", r.GitDir))
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository in %s\n", r.GitDir)
			return nil
		},
	}
}
