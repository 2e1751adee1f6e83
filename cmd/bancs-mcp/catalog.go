package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/bancs-mcp/internal/dispatch"
	"github.com/bobmcallan/bancs-mcp/internal/result"
)

// errFailedResult marks a printed error result so the process exits non-zero
// without cobra printing anything further.
var errFailedResult = errors.New("request failed")

func newEndpointsCmd(c *cli) *cobra.Command {
	var opts dispatch.ListOptions

	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "List and search catalogued endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.application(true)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a.Dispatcher.ListEndpoints(opts))
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "search", "s", "", "text to search in names, descriptions, paths or tags")
	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", "", "filter by tag")
	cmd.Flags().StringVarP(&opts.Method, "method", "m", "", "filter by HTTP method")
	cmd.Flags().BoolVar(&opts.IncludeDeprecated, "include-deprecated", false, "include deprecated endpoints")
	return cmd
}

func newSchemaCmd(c *cli) *cobra.Command {
	var operationID string

	cmd := &cobra.Command{
		Use:   "schema [endpoint]",
		Short: "Show the schema of one endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := dispatch.Ref{OperationID: operationID}
			if len(args) == 1 {
				ref.EndpointID = args[0]
			}
			if ref.EndpointID == "" && ref.OperationID == "" {
				return errors.New("an endpoint name or --operation-id is required")
			}

			a, err := c.application(true)
			if err != nil {
				return err
			}
			schema, rerr := a.Dispatcher.GetEndpointSchema(ref)
			if rerr != nil {
				return printResult(cmd, result.Fail(rerr))
			}
			return printJSON(cmd.OutOrStdout(), schema)
		},
	}

	cmd.Flags().StringVar(&operationID, "operation-id", "", "look the endpoint up by its OpenAPI operationId")
	return cmd
}

func newInvokeCmd(c *cli) *cobra.Command {
	var (
		operationID string
		pairs       []string
		paramsJSON  string
	)

	cmd := &cobra.Command{
		Use:   "invoke [endpoint]",
		Short: "Invoke an endpoint by name or operationId",
		Example: `  bancs-mcp invoke cbpetget_account_balance_using_get --param accountReference=ACC123 --param ChannelType=2
  bancs-mcp invoke create_acnt_actv_using_post --params '{"request_body":{"customerId":"100012345"}}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := dispatch.Ref{OperationID: operationID}
			if len(args) == 1 {
				ref.EndpointID = args[0]
			}
			if ref.EndpointID == "" && ref.OperationID == "" {
				return errors.New("an endpoint name or --operation-id is required")
			}

			params, err := parseParams(paramsJSON, pairs)
			if err != nil {
				return err
			}

			a, err := c.application(true)
			if err != nil {
				return err
			}
			return printResult(cmd, a.Dispatcher.Invoke(cmd.Context(), ref, params))
		},
	}

	cmd.Flags().StringVar(&operationID, "operation-id", "", "look the endpoint up by its OpenAPI operationId")
	cmd.Flags().StringArrayVar(&pairs, "param", nil, "parameter as name=value; JSON values are decoded (repeatable)")
	cmd.Flags().StringVar(&paramsJSON, "params", "", "parameters as a JSON object; --param entries are applied on top")
	return cmd
}

// parseParams merges a JSON object with name=value pairs. Pair values that
// parse as JSON keep their type, anything else is taken as a string.
func parseParams(raw string, pairs []string) (map[string]any, error) {
	params := make(map[string]any)
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return nil, fmt.Errorf("--params must be a JSON object: %w", err)
		}
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--param %q must be name=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		params[name] = v
	}
	return params, nil
}

// printResult prints r and returns errFailedResult when it is an error.
func printResult(cmd *cobra.Command, r result.Result) error {
	if err := printJSON(cmd.OutOrStdout(), r); err != nil {
		return err
	}
	if r.IsError() {
		return errFailedResult
	}
	return nil
}
