package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	config string
	user   uint
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "gqlmodel",
		Short:        "Expose gorm models as GraphQL fields",
		Long:         "gqlmodel binds model attributes of a demo database to a GraphQL schema and runs queries against it.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file (.yaml, .json, .toml or .ini)")
	cmd.PersistentFlags().UintVarP(&flags.user, "user", "u", 0, "account id used for authorization, 0 reads everything")

	cmd.AddCommand(newQueryCmd(flags), newServeCmd(flags))
	return cmd
}
