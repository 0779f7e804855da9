package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"droscher.com/WineCellar/pkg/model"
	"droscher.com/WineCellar/pkg/server"
)

const (
	minWidth = 0
	tabWidth = 8
	padding  = 2
)

func newTable(out io.Writer, header ...string) *tabwriter.Writer {
	table := tabwriter.NewWriter(out, minWidth, tabWidth, padding, ' ', 0)

	for i, column := range header {
		if i > 0 {
			fmt.Fprint(table, "\t")
		}

		fmt.Fprint(table, column)
	}

	fmt.Fprintln(table)

	return table
}

func optional(value *string) string {
	if value == nil {
		return "-"
	}

	return *value
}

func optionalFloat(value *float64) string {
	if value == nil {
		return "-"
	}

	return strconv.FormatFloat(*value, 'f', 2, 64)
}

func capacity(value *int64) string {
	if value == nil {
		return "unlimited"
	}

	return strconv.FormatInt(*value, 10)
}

func printCellars(out io.Writer, cellars []*model.Cellar) error {
	table := newTable(out, "ID", "NAME", "OWNER", "SHELVES")

	for _, c := range cellars {
		fmt.Fprintf(table, "%d\t%s\t%s %s\t%d\n", c.ID, c.Name, c.Owner.FirstName, c.Owner.Name, len(c.Shelves))
	}

	return table.Flush()
}

func printInventory(out io.Writer, groups []*model.InventoryGroup) error {
	table := newTable(out, "PRODUCER", "NAME", "TYPE", "YEAR", "REGION", "SHELF", "QUANTITY", "LABEL")

	for _, g := range groups {
		fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%s\n",
			g.Producer, g.Name, g.Type, g.Year, optional(g.Region), g.ShelfName, g.Quantity, optional(g.LabelImage))
	}

	return table.Flush()
}

func printReviews(out io.Writer, reviews []*model.Review) error {
	table := newTable(out, "ARCHIVED", "RATING", "COMMENT")

	for _, r := range reviews {
		fmt.Fprintf(table, "%s\t%s\t%s\n", r.ArchivedOn.Format("2006-01-02"), optionalFloat(r.Rating), optional(r.Comment))
	}

	return table.Flush()
}

func printCommunity(out io.Writer, wines []*model.CommunityWine) error {
	table := newTable(out, "PRODUCER", "NAME", "TYPE", "YEAR", "REGION", "RATING", "REVIEWS")

	for _, w := range wines {
		fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
			w.Producer, w.Name, w.Type, w.Year, optional(w.Region), optionalFloat(w.AverageRating), w.ReviewCount)
	}

	return table.Flush()
}

func printCellarDetail(out io.Writer, c *server.Cellar) error {
	owner := "-"
	if c.Owner != nil {
		owner = c.Owner.FirstName + " " + c.Owner.Name
	}

	fmt.Fprintf(out, "Cellar %d: %s (owner %s)\n", c.ID, c.Name, owner)

	table := newTable(out, "SHELF", "NAME", "CAPACITY", "OCCUPANCY")

	for _, s := range c.Shelves {
		fmt.Fprintf(table, "%d\t%s\t%s\t%d\n", s.ID, s.Name, capacity(s.Capacity), s.Occupancy)
	}

	return table.Flush()
}
