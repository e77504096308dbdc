package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driven/notify"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// defaultTermWidth is used when stdout is not a terminal.
const defaultTermWidth = 80

var (
	searchLimit int
	searchMore  int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the corpus",
	Long: `Prints segments whose text contains the query, in corpus order.
Without a query the start of the corpus is listed.

The first 20 segments are fetched; --more loads further batches of 50 the
same way the interactive browser does. --limit fetches exactly N segments
in a single request instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "fetch exactly N segments in one request")
	searchCmd.Flags().IntVarP(&searchMore, "more", "m", 0, "load N more batches after the first")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	text := ""
	if len(args) == 1 {
		text = args[0]
	}
	ctx := contextOf(cmd)

	var page domain.ResultPage
	if searchLimit > 0 {
		page, err = searchOnce(ctx, svc, domain.SearchQuery{Text: text, WindowSize: searchLimit})
	} else {
		page, err = searchPaged(ctx, svc, text, searchMore)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, text, page)
	}
	outputSearchList(cmd, page)
	return nil
}

func searchOnce(ctx context.Context, svc *Services, query domain.SearchQuery) (domain.ResultPage, error) {
	if svc.Search == nil {
		return domain.ResultPage{}, errors.New("search service not configured")
	}
	return svc.Search.Search(ctx, query)
}

// searchPaged runs text through a browser, then loads more batches.
func searchPaged(ctx context.Context, svc *Services, text string, more int) (domain.ResultPage, error) {
	if svc.NewBrowser == nil {
		return domain.ResultPage{}, errors.New("browser not configured")
	}

	browser := svc.NewBrowser(notify.Func(func(query domain.SearchQuery, err error) {
		logger.Debug("search %s failed: %v", query, err)
	}))
	defer browser.Close()

	browser.Submit(text)
	state, err := waitPage(ctx, browser.WaitIdle)
	if err != nil {
		return domain.ResultPage{}, err
	}

	for i := 0; i < more && browser.LoadMore(); i++ {
		if state, err = waitPage(ctx, browser.WaitIdle); err != nil {
			return domain.ResultPage{}, err
		}
	}
	return state.Page, nil
}

func waitPage(
	ctx context.Context,
	wait func(context.Context) (domain.ViewState, error),
) (domain.ViewState, error) {
	state, err := wait(ctx)
	if err != nil {
		return state, err
	}
	return state, state.Err
}

// searchOutput is the --json document.
type searchOutput struct {
	Query   string               `json:"query"`
	Shown   int                  `json:"shown"`
	Total   int                  `json:"total"`
	HasMore bool                 `json:"has_more"`
	Results []domain.TextSegment `json:"results"`
}

func outputSearchJSON(cmd *cobra.Command, text string, page domain.ResultPage) error {
	out := searchOutput{
		Query:   text,
		Shown:   page.Len(),
		Total:   page.Total,
		HasMore: page.HasMore(),
		Results: page.Items,
	}
	if out.Results == nil {
		out.Results = []domain.TextSegment{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, page domain.ResultPage) {
	if page.Len() == 0 {
		cmd.Println(list.EmptyText)
		return
	}

	width := termWidth()
	cmd.Println(list.Summary(page.Len(), page.Total))
	cmd.Println()
	for i := range page.Items {
		seg := &page.Items[i]
		cmd.Printf("  [%d] %s\n", i+1, strings.Join(list.Chips(seg), " · "))
		cmd.Printf("      %s\n", list.Truncate(list.Flatten(seg.Content), width-6))
		cmd.Println()
	}
	if page.HasMore() {
		cmd.Printf("%d more; use --more to load them.\n", page.Total-page.Len())
	}
}

// termWidth returns the width of stdout, or a default for pipes.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width < 40 {
		return defaultTermWidth
	}
	return width
}
