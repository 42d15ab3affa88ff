package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"geoplot-server/chart"
	"geoplot-server/export"
	"geoplot-server/render"
	"geoplot-server/util"
)

func init() {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a reduction table file into a chart",
		Long:  "Reads a reduction table from JSON and writes an HTML or XLSX chart, picked by the output extension.",
		Run:   runRender,
	}

	cmd.Flags().String("input", "", "Reduction table JSON file")
	cmd.Flags().String("out", "", "Output file (.html or .xlsx)")
	cmd.Flags().String("kind", "bar", "Chart kind: bar, barh, stacked, plot, fill_between, scatter, pie, donut, hist")
	cmd.Flags().String("layout", "", "Table layout: rows-as-x or rows-as-series")
	cmd.Flags().String("missing", "", "Missing column policy: fail, zero or gap")
	cmd.Flags().String("columns", "", "Comma-separated column ids to include")
	cmd.Flags().String("labels", "", "Comma-separated series labels")
	cmd.Flags().String("colors", "", "Comma-separated series colors")
	cmd.Flags().String("title", "", "Chart title")

	RootCmd.AddCommand(cmd)
}

func runRender(cmd *cobra.Command, args []string) {
	input, _ := cmd.Flags().GetString("input")
	out, _ := cmd.Flags().GetString("out")
	kindFlag, _ := cmd.Flags().GetString("kind")
	layoutFlag, _ := cmd.Flags().GetString("layout")
	missingFlag, _ := cmd.Flags().GetString("missing")
	columns, _ := cmd.Flags().GetString("columns")
	labels, _ := cmd.Flags().GetString("labels")
	colors, _ := cmd.Flags().GetString("colors")
	title, _ := cmd.Flags().GetString("title")

	table, err := util.ReadReductionTableFromJSON(input)
	if err != nil {
		exitErr("read table", err)
	}

	kind, err := chart.ParseKind(kindFlag)
	if err != nil {
		exitErr("parse kind", err)
	}
	layout, err := chart.ParseLayout(layoutFlag)
	if err != nil {
		exitErr("parse layout", err)
	}
	missing, err := chart.ParseMissing(missingFlag)
	if err != nil {
		exitErr("parse missing policy", err)
	}
	spec := chart.Spec{
		Kind:    kind,
		Layout:  layout,
		Missing: missing,
		Columns: splitList(columns),
		Labels:  splitList(labels),
		Colors:  splitList(colors),
	}

	series, err := chart.Build(table, spec)
	if err != nil {
		exitErr("build series", err)
	}

	if strings.HasSuffix(out, ".xlsx") {
		workbook, err := export.NewWorkbook(kind, series, title)
		if err != nil {
			exitErr("build workbook", err)
		}
		defer workbook.Close()
		if err := workbook.SaveAs(out); err != nil {
			exitErr("write workbook", err)
		}
	} else {
		file, err := os.Create(out)
		if err != nil {
			exitErr("create output", err)
		}
		defer file.Close()
		if err := render.Render(file, kind, series, render.Options{Title: title}); err != nil {
			exitErr("render chart", err)
		}
	}
	fmt.Println("wrote " + out)
}
