package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var (
	listExtFilter string
	listSortBy    string
	listReverse   bool
	listSearch    string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list [dir]",
	Short:   "List images in a folder",
	Aliases: []string{"ls"},
	Long: `List supported images (jpg, png, gif, bmp, webp, tiff) in a table.

Examples:
  lumi list
  lumi list ~/Pictures --sort date --reverse
  lumi list --ext png
  lumi list --search holiday`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	// Sort and reverse fall back to config defaults when not set
	listCmd.Flags().StringVar(&listExtFilter, "ext", "", "Only show this extension (e.g. png)")
	listCmd.Flags().StringVar(&listSortBy, "sort", "name", "Sort by field (name, size, date)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Fuzzy filter by name")
}

func runList(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		imageRepo.SetRoot(args[0])
	}
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	ctx := getContext()
	resp, err := listService.Execute(ctx, services.ListRequest{
		ExtFilter: listExtFilter,
		SortBy:    listSortBy,
		Reverse:   listReverse,
		Query:     listSearch,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list images"))
		return err
	}

	images := resp.Images
	if len(images) == 0 {
		fmt.Println(ui.FormatWarning("No images found in " + resp.Root))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("%s Images in %s", ui.IconImage, resp.Root)))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "Name", Width: 30},
		{Header: "Type", Width: 5},
		{Header: "Size", Width: 10, Align: lipgloss.Right},
		{Header: "Modified", Width: 16},
	})
	for _, img := range images {
		table.AddRow(
			truncate(img.Name, 48),
			img.Ext,
			img.GetDisplaySize(),
			img.GetDisplayDate(appConfig.DateFormat),
		)
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d images", len(images))))
	return nil
}
