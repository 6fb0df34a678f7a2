package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newQueryCmd(flags *rootFlags) *cobra.Command {
	var variables string
	var operationName string

	cmd := &cobra.Command{
		Use:   "query [request]",
		Short: "Run a GraphQL request against the demo schema",
		Long:  "Run a GraphQL request against the demo schema. The request is read from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequest(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var vars map[string]any
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &vars); err != nil {
					return errors.Wrap(err, "invalid variables")
				}
			}

			config, err := loadConfig(flags.config)
			if err != nil {
				return err
			}
			app, err := NewApp(config)
			if err != nil {
				return err
			}

			result := app.Do(withUser(cmd.Context(), flags.user), request, vars, operationName)
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return errors.Wrap(err, "encode result failed")
			}
			if result.HasErrors() {
				return errors.Errorf("query returned %d errors", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variables, "variables", "", "request variables as a JSON object")
	cmd.Flags().StringVar(&operationName, "operation", "", "operation name")
	return cmd
}

func readRequest(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", errors.Wrap(err, "read request from stdin failed")
	}
	request := strings.TrimSpace(string(data))
	if request == "" {
		return "", errors.New("request is empty")
	}
	return request, nil
}
