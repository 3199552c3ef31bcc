package commands

import (
	"fmt"

	"gitstore/pkg/storage"
	"gitstore/pkg/types"

	"github.com/spf13/cobra"
)

func newCatFileCmd(st *state) *cobra.Command {
	var showType, showSize, pretty, exists bool

	cmd := &cobra.Command{
		Use:   "cat-file (-t | -s | -p | -e) <object>",
		Short: "Provide content, type or size of a stored object",
		Long:  `Look an object up by its full or abbreviated name and print its type, size or content.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.repository(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			hash, err := a.Objects.Resolve(ctx, types.HashPrefix(args[0]))
			if err != nil {
				return fmt.Errorf("not a valid object name %s: %w", args[0], err)
			}

			switch {
			case exists:
				return nil
			case showType, showSize:
				hdr, err := a.Objects.Header(ctx, hash)
				if err != nil {
					return err
				}
				if showType {
					fmt.Fprintln(out, hdr.Type)
				} else {
					fmt.Fprintln(out, hdr.Size)
				}
				return nil
			default:
				obj, err := a.Objects.Read(ctx, hash)
				if err != nil {
					return err
				}
				if obj == nil {
					return fmt.Errorf("object %s: %w", hash, storage.ErrNotFound)
				}
				_, err = out.Write(obj.Payload())
				return err
			}
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "show object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "show object size")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "print object content")
	cmd.Flags().BoolVarP(&exists, "exists", "e", false, "exit with zero status if the object exists")
	cmd.MarkFlagsMutuallyExclusive("type", "size", "pretty", "exists")
	cmd.MarkFlagsOneRequired("type", "size", "pretty", "exists")
	return cmd
}
