package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/redact"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tuplestore/tupcodec/tupcodec"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "decode a header envelope followed by a footer envelope and print their contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

// runInspect assumes the simplest document shape on the write state
// machine (spec.md §4.9): a header envelope immediately followed by a
// footer envelope, with no intervening page-list or per-cluster envelopes.
// Files with page lists in between are not yet supported by this tool.
func runInspect(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	header, n, err := tupcodec.DeserializeHeader(buf)
	if err != nil {
		return fmt.Errorf("decoding header: %w", err)
	}
	printHeader(cmd, header)

	footer, _, err := tupcodec.DeserializeFooter(buf[n:])
	if err != nil {
		return fmt.Errorf("decoding footer: %w", err)
	}
	printFooter(cmd, footer)

	return nil
}

func printHeader(cmd *cobra.Command, h tupcodec.HeaderContents) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "name: %s\n", redact.SafeString(h.Name))
	fmt.Fprintf(out, "description: %s\n", redact.SafeString(h.Description))
	fmt.Fprintf(out, "feature flags: %v\n\n", h.FeatureFlags)

	fields := tablewriter.NewWriter(out)
	fields.SetHeader([]string{"parent", "structure", "name", "type"})
	for _, f := range h.Fields {
		fields.Append([]string{
			fmt.Sprintf("%d", f.ParentPhysicalID),
			fmt.Sprintf("%d", f.Structure),
			string(redact.SafeString(f.Name)),
			string(redact.SafeString(f.TypeName)),
		})
	}
	fields.Render()

	cols := tablewriter.NewWriter(out)
	cols.SetHeader([]string{"field", "type", "bits", "flags"})
	for _, c := range h.Columns {
		cols.Append([]string{
			fmt.Sprintf("%d", c.PhysicalFieldID),
			fmt.Sprintf("%d", c.Type),
			fmt.Sprintf("%d", c.BitsOnStorage),
			fmt.Sprintf("%#x", c.Flags),
		})
	}
	cols.Render()
}

func printFooter(cmd *cobra.Command, f tupcodec.FooterContents) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nheader crc32: %#x\n\n", f.HeaderCRC32)

	summaries := tablewriter.NewWriter(out)
	summaries.SetHeader([]string{"first entry", "n entries", "column group"})
	for _, s := range f.ClusterSummaries {
		summaries.Append([]string{
			fmt.Sprintf("%d", s.FirstEntry),
			fmt.Sprintf("%d", s.NEntries),
			fmt.Sprintf("%d", s.ColumnGroupID),
		})
	}
	summaries.Render()

	groups := tablewriter.NewWriter(out)
	groups.SetHeader([]string{"n clusters", "page list locator"})
	for _, g := range f.ClusterGroups {
		groups.Append([]string{
			fmt.Sprintf("%d", g.NClusters),
			describeLocator(g.PageList.Locator),
		})
	}
	groups.Render()
}

func describeLocator(l tupcodec.Locator) string {
	if l.URL != "" {
		return l.URL
	}
	return fmt.Sprintf("offset=%d size=%d", l.Position, l.BytesOnStorage)
}
