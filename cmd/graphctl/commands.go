package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OFFIS-RIT/constellation/backend/pkg/graph"

	"github.com/spf13/cobra"
)

// reportedError has already been printed by the command.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

type rootOptions struct {
	strict  bool
	repair  bool
	verbose bool
}

// clientFactory builds the GraphClient once flags are parsed.
type clientFactory func(rootOptions) (*graph.GraphClient, error)

func newRootCmd(newClient clientFactory) *cobra.Command {
	var (
		opts   rootOptions
		client *graph.GraphClient
	)

	root := &cobra.Command{
		Use:           "graphctl",
		Short:         "Fetch, generate and validate knowledge graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts)
			if err != nil {
				return err
			}
			client = c
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&opts.strict, "strict", false, "reject categories outside the known set")
	root.PersistentFlags().BoolVar(&opts.repair, "repair", false, "try to repair malformed JSON before rejecting it")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	get := func() *graph.GraphClient { return client }
	root.AddCommand(
		newValidateCmd(get),
		newFetchCmd(get),
		newTemplatesCmd(get),
		newGenerateCmd(get),
	)
	return root
}

func newValidateCmd(client func() *graph.GraphClient) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Parse and validate a model response",
		Long:  "Reads a raw model response from a file, or stdin when the argument is '-' or missing, and checks that it describes a valid graph.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			g, err := client().Parse(string(raw))
			if err != nil {
				kind, _ := graph.KindOf(err)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", kind, err)
				return reportedError{err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d nodes, %d links\n", len(g.Nodes), len(g.Links))
			return nil
		},
	}
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}

func newFetchCmd(client func() *graph.GraphClient) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <topic>...",
		Short: "Print the graph for one or more topics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := client().FetchGraphs(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(graphs) == 1 {
				return printJSON(cmd.OutOrStdout(), graphs[0])
			}
			return printJSON(cmd.OutOrStdout(), graphs)
		},
	}
}

func newTemplatesCmd(client func() *graph.GraphClient) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in template topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range client().Templates().Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func newGenerateCmd(client func() *graph.GraphClient) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <topic>",
		Short: "Ask the configured model for a graph, falling back to local graphs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			g, source, err := client().GenerateGraphWithFallback(cmd.Context(), topic)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", source)
			return printJSON(cmd.OutOrStdout(), g)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
