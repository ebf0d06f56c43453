package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/Sternrassler/swapi-browser/pkg/pagination"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// listOptions are the flags shared by the people and planets commands.
type listOptions struct {
	page   int
	all    bool
	output string
}

// listing is what a list command prints: the raw value for JSON output and
// the rows for table output.
type listing struct {
	value   any
	summary string
	columns []string
	rows    [][]string
}

func (a *app) newListCmd(resource client.Resource) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   string(resource),
		Short: fmt.Sprintf("Print a page of the %s collection", resource),
		Example: fmt.Sprintf(`  swapi-browser %[1]s
  swapi-browser %[1]s --page 3 --output json
  swapi-browser %[1]s --all`, resource),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputTable && opts.output != outputJSON {
				return fmt.Errorf("unknown output format %q (want %s or %s)", opts.output, outputTable, outputJSON)
			}

			c, err := a.newClient()
			if err != nil {
				return err
			}

			var l *listing
			switch resource {
			case client.ResourcePeople:
				l, err = list(cmd.Context(), c, a.cfg.ToPagination(), c.FetchPeople, resource, opts, client.PersonColumns, client.Person.Row)
			case client.ResourcePlanets:
				l, err = list(cmd.Context(), c, a.cfg.ToPagination(), c.FetchPlanets, resource, opts, client.PlanetColumns, client.Planet.Row)
			}
			if err != nil {
				return err
			}

			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), l.value)
			}
			return writeTable(cmd.OutOrStdout(), l)
		},
	}

	cmd.Flags().IntVar(&opts.page, "page", 1, "page number, sent to the service as given")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch every page in parallel")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table or json")
	cmd.Flags().Int("concurrency", 0, "parallel page fetches with --all (default 4)")
	cmd.MarkFlagsMutuallyExclusive("page", "all")
	return cmd
}

// list fetches one page with fetch, or every page through a batch fetcher
// backed by c when opts.all is set.
func list[T any](
	ctx context.Context,
	c *client.Client,
	batch pagination.Config,
	fetch func(context.Context, int) (*client.Page[T], error),
	resource client.Resource,
	opts *listOptions,
	columns []string,
	row func(T) []string,
) (*listing, error) {
	l := &listing{columns: columns}

	var records []T
	if opts.all {
		bf := pagination.NewBatchFetcher(c, batch)
		all, err := pagination.FetchAll[T](ctx, bf, resource)
		if err != nil {
			return nil, err
		}
		records = all
		l.value = all
		l.summary = fmt.Sprintf("%d %s", len(all), resource)
	} else {
		p, err := fetch(ctx, opts.page)
		if err != nil {
			return nil, err
		}
		records = p.Results
		l.value = p
		l.summary = pageSummary(p, resource, opts.page)
	}

	for _, r := range records {
		l.rows = append(l.rows, row(r))
	}
	return l, nil
}

func pageSummary[T any](p *client.Page[T], resource client.Resource, page int) string {
	s := fmt.Sprintf("%d %s · page %d", p.Count, resource, page)
	if len(p.Results) > 0 && p.HasNext() {
		s += fmt.Sprintf(" of %d", p.TotalPages(len(p.Results)))
	}
	if n, ok := p.NextPage(); ok {
		s += fmt.Sprintf(" · next: --page %d", n)
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func writeTable(w io.Writer, l *listing) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(l.columns...).
		Rows(l.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, l.summary); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
