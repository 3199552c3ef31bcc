package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFsckCmd(st *state) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "fsck",
		Short: "Verify the integrity of every stored object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.repository(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = st.v.GetInt("verify.workers")
			}

			report, err := a.Objects.Verify(cmd.Context(), workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, c := range report.Corrupt {
				fmt.Fprintf(out, "corrupt %s\n", c)
			}
			fmt.Fprintf(out, "checked %d objects\n", report.Checked)
			if !report.OK() {
				return fmt.Errorf("%d corrupt objects", len(report.Corrupt))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent checkers (default from verify.workers)")
	return cmd
}
