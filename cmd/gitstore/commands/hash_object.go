package commands

import (
	"fmt"
	"io"
	"os"

	"gitstore/pkg/core"
	"gitstore/pkg/objstore"

	"github.com/spf13/cobra"
)

func newHashObjectCmd(st *state) *cobra.Command {
	var (
		write   bool
		objType string
		stdin   bool
	)

	cmd := &cobra.Command{
		Use:   "hash-object [-w] [-t type] (--stdin | <file>)",
		Short: "Compute object name and optionally store the object",
		Args: func(cmd *cobra.Command, args []string) error {
			if stdin {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := core.ParseObjectType([]byte(objType))
			if err != nil {
				return err
			}

			var data []byte
			if stdin {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			obj, err := core.New(t, data)
			if err != nil {
				return err
			}

			// without -w this is a dry run on a nil store
			var store *objstore.Store
			if write {
				a, err := st.repository(cmd)
				if err != nil {
					return err
				}
				store = a.Objects
			}

			hash, err := store.Write(cmd.Context(), obj)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "actually write the object into the object store")
	cmd.Flags().StringVarP(&objType, "type", "t", string(core.TypeBlob), "object type (blob, tree, commit, tag)")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "read the object from standard input")
	return cmd
}
