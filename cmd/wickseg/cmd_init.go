package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInitCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save freshly initialised model weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfig()
			if err != nil {
				return err
			}
			vs, _, err := a.buildModel(c)
			if err != nil {
				return err
			}
			if err := vs.Save(out); err != nil {
				return err
			}
			a.logger.Info("weights saved", zap.String("path", out), zap.Int("variables", len(vs.Variables())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "wickunet.ot", "output weight file")

	return cmd
}
