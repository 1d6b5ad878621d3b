package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/viewmig/internal/presentation/graph"
	"github.com/aretw0/viewmig/internal/textio"
	"github.com/aretw0/viewmig/internal/view"
	"github.com/aretw0/viewmig/pkg/literal"
	"github.com/aretw0/viewmig/pkg/transpile"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a single attrs, domain, states list or view file",
	Example: `  viewmig convert --domain "['|', ('state', '=', 'draft'), ('locked', '=', False)]"
  viewmig convert --attrs "{'invisible': [('type', '=', 'service')]}"
  viewmig convert --states draft,sent --invisible "not partner_id"
  viewmig convert --view views/sale_views.xml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, _ := cmd.Flags().GetString("attrs")
		domainText, _ := cmd.Flags().GetString("domain")
		states, _ := cmd.Flags().GetString("states")
		invisible, _ := cmd.Flags().GetString("invisible")
		viewPath, _ := cmd.Flags().GetString("view")
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		switch {
		case cmd.Flags().Changed("attrs"):
			set, err := transpile.GetNewAttrs(attrs)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, set)
			}
			for _, a := range set {
				fmt.Fprintf(out, "%s=%q\n", a.Name, a.Expr)
			}
		case cmd.Flags().Changed("domain"):
			expr, err := transpile.ConvertDomain(domainText)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, map[string]string{"expression": expr})
			}
			fmt.Fprintln(out, expr)
		case cmd.Flags().Changed("states"):
			expr := transpile.CombineInvisible(invisible, states)
			if asJSON {
				return writeJSON(out, map[string]string{"invisible": expr})
			}
			fmt.Fprintln(out, expr)
		case cmd.Flags().Changed("view"):
			return convertViewFile(out, viewPath, asJSON)
		default:
			return fmt.Errorf("one of --attrs, --domain, --states or --view is required")
		}
		return nil
	},
}

// convertViewFile prints the converted view; "-" reads standard input.
func convertViewFile(out io.Writer, path string, asJSON bool) error {
	var text *textio.Text
	var err error
	if path == "-" {
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return rerr
		}
		text, err = textio.Decode(data)
	} else {
		text, err = textio.ReadFile(path)
	}
	if err != nil {
		return err
	}

	converted, res, err := view.Convert(text.Content)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, map[string]any{"content": converted, "changes": res.Changes})
	}
	_, err = io.WriteString(out, converted)
	return err
}

var graphCmd = &cobra.Command{
	Use:   "graph <domain>",
	Short: "Export a domain as a Mermaid diagram",
	Long:  `Parses a domain and outputs a Mermaid diagram (graph TD) of its operator tree, with implicit conjunctions made explicit.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, _ := cmd.Flags().GetStringSlice("highlight")

		v, err := literal.ParseWithRefs(args[0])
		if err != nil {
			return err
		}
		d, err := transpile.ToDomain(v)
		if err != nil {
			return err
		}
		var overlay *graph.Overlay
		if len(fields) > 0 {
			overlay = &graph.Overlay{Fields: fields}
		}
		output, err := graph.GenerateMermaid(d, overlay)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("attrs", "", "attrs dictionary to convert")
	convertCmd.Flags().String("domain", "", "Domain to convert")
	convertCmd.Flags().String("states", "", "Comma separated states to fold into --invisible")
	convertCmd.Flags().String("invisible", "", "Existing invisible expression, used with --states")
	convertCmd.Flags().String("view", "", "View file to convert and print ('-' for stdin)")
	convertCmd.Flags().Bool("json", false, "Print JSON")
	convertCmd.MarkFlagsMutuallyExclusive("attrs", "domain", "states", "view")

	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("highlight", nil, "Field names whose leaves are highlighted")
}
