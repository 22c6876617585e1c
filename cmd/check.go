package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/releaseplan/app"
)

func newCheckCmd() *cobra.Command {
	var input, format string
	c := &cobra.Command{
		Use:   "check",
		Short: "Validate a release file and print the plan without writing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(func(svc *app.Service) error {
				rep, err := svc.Check(cmd.Context(), input)
				if err != nil {
					return err
				}
				return rep.Render(cmd.OutOrStdout(), format)
			})
		},
	}
	c.Flags().StringVar(&input, "input", "releases.txt", "path to the input file")
	c.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return c
}
