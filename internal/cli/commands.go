package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/studiowebux/shopdemo/internal/analytics"
	"github.com/studiowebux/shopdemo/internal/catalog"
	"github.com/studiowebux/shopdemo/internal/directory"
	"github.com/studiowebux/shopdemo/internal/gateway"
	"github.com/studiowebux/shopdemo/internal/mock"
	"github.com/studiowebux/shopdemo/internal/probe"
	"github.com/studiowebux/shopdemo/internal/types"
	"golang.org/x/sync/errgroup"
)

// ErrUnreachable is returned by RunProbe when the origin did not answer
var ErrUnreachable = errors.New("origin unreachable")

// ProductLine is one catalog row with its cart membership
type ProductLine struct {
	types.Product `yaml:",inline"`
	InCart        bool `json:"inCart" yaml:"inCart"`
}

// ProductReport is the output of the products command
type ProductReport struct {
	Source   types.SourceMode `json:"source" yaml:"source"`
	Products []ProductLine    `json:"products" yaml:"products"`
	Cart     []int            `json:"cart" yaml:"cart"`
	Total    float64          `json:"total" yaml:"total"`
}

// ProductsOptions are the flags of the products command
type ProductsOptions struct {
	Source string
	Cart   []int
	Pick   bool // choose cart contents interactively
}

// RunProducts loads the catalog, applies cart toggles and prints the result
func RunProducts(ctx context.Context, opts Options, p ProductsOptions, pageSize int) error {
	mode, err := types.ParseSourceMode(p.Source)
	if err != nil {
		return err
	}

	ctl := catalog.New(opts.client(), pageSize, opts.logger())
	if err := ctl.Load(ctx, mode); err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	for _, id := range p.Cart {
		ctl.ToggleCart(id)
	}

	if p.Pick {
		ids, err := pickProducts(ctl.Items(), ctl.CartIDs())
		if err != nil {
			return err
		}
		for _, id := range ctl.CartIDs() {
			ctl.ToggleCart(id)
		}
		for _, id := range ids {
			ctl.ToggleCart(id)
		}
	}

	report := buildProductReport(ctl)
	return opts.render(report, func(w io.Writer) { writeProducts(w, report) })
}

func buildProductReport(ctl *catalog.Controller) ProductReport {
	items := ctl.Items()
	report := ProductReport{
		Source:   ctl.Mode(),
		Products: make([]ProductLine, 0, len(items)),
		Cart:     ctl.CartIDs(),
		Total:    ctl.Total(),
	}
	for _, p := range items {
		report.Products = append(report.Products, ProductLine{Product: p, InCart: ctl.InCart(p.ID)})
	}
	return report
}

func writeProducts(w io.Writer, r ProductReport) {
	fmt.Fprintf(w, "Products (%s) | Cart: %d | Total: R$ %.2f\n\n", r.Source, len(r.Cart), r.Total)
	for _, line := range r.Products {
		mark := " "
		if line.InCart {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %3d  %-32s R$ %9.2f  %sstock %d%s  ★ %.1f  %s / %s  -%.1f%%\n",
			mark, line.ID, line.Title, line.Price,
			getStockColor(line.Product), line.Stock, colorReset,
			line.Rating, line.Category, line.Brand, line.DiscountPercentage)
	}
}

// UserReport is the output of the users command
type UserReport struct {
	Source  types.SourceMode `json:"source" yaml:"source"`
	Search  string           `json:"search" yaml:"search"`
	Gender  string           `json:"gender" yaml:"gender"`
	Total   int              `json:"total" yaml:"total"`
	Visible []types.User     `json:"visible" yaml:"visible"`
}

// UsersOptions are the flags of the users command
type UsersOptions struct {
	Source string
	Search string
	Gender string
	Add    string // first,last,email
	Remove int    // 0 means none
}

// RunUsers loads the directory, applies edits and filters and prints the visible users
func RunUsers(ctx context.Context, opts Options, u UsersOptions, pageSize int) error {
	mode, err := types.ParseSourceMode(u.Source)
	if err != nil {
		return err
	}

	ctl := directory.New(opts.client(), pageSize, opts.logger())
	if err := ctl.Load(ctx, mode); err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	if u.Remove != 0 {
		if !ctl.RemoveUser(u.Remove) {
			return fmt.Errorf("cannot remove user %d (not found or remote source)", u.Remove)
		}
	}

	if u.Add != "" {
		first, last, email, err := ParseDraft(u.Add)
		if err != nil {
			return err
		}
		if _, ok := ctl.AddUser(directory.Draft{FirstName: first, LastName: last, Email: email}); !ok {
			return fmt.Errorf("cannot add user (empty field or remote source)")
		}
	}

	gender := u.Gender
	if gender == "" {
		gender = types.GenderAll
	}
	visible := ctl.ApplyFilter(u.Search, gender)

	report := UserReport{
		Source:  ctl.Mode(),
		Search:  u.Search,
		Gender:  gender,
		Total:   ctl.Len(),
		Visible: visible,
	}
	return opts.render(report, func(w io.Writer) { writeUsers(w, report) })
}

func writeUsers(w io.Writer, r UserReport) {
	fmt.Fprintf(w, "Users (%s) | %d of %d | search %q | gender %s\n\n", r.Source, len(r.Visible), r.Total, r.Search, r.Gender)
	for _, u := range r.Visible {
		fmt.Fprintf(w, "%3d  %-24s %-6s %3d  %-36s %s/%s\n",
			u.ID, u.FullName(), u.Gender, u.Age, u.Email, u.Address.City, u.Address.State)
	}
}

// RunTodos fetches one page of tasks
func RunTodos(ctx context.Context, opts Options, limit, skip int) error {
	page, err := opts.client().FetchTodos(ctx, limit, skip)
	if err != nil {
		return err
	}
	return opts.render(page, func(w io.Writer) {
		fmt.Fprintf(w, "Todos %d-%d of %d\n\n", page.Skip+1, page.Skip+len(page.Todos), page.Total)
		for _, t := range page.Todos {
			box := "[ ]"
			if t.Completed {
				box = "[x]"
			}
			fmt.Fprintf(w, "%s %3d  %s (user %d)\n", box, t.ID, t.Todo, t.UserID)
		}
	})
}

// ProbeReport is the output of the probe command
type ProbeReport struct {
	State   string `json:"state" yaml:"state"`
	Label   string `json:"label" yaml:"label"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunProbe runs one connectivity probe. It returns ErrUnreachable after printing
// the report when the origin did not answer.
func RunProbe(ctx context.Context, opts Options) error {
	logger := opts.logger()
	w := probe.New(logger, func(from, to probe.State) {
		logger.Debug("probe transition", "from", from.String(), "to", to.String())
	})

	state := w.Run(ctx, opts.client())

	report := ProbeReport{State: state.String(), Label: state.Label()}
	if raw := w.Payload(); len(raw) > 0 {
		var payload any
		if err := json.Unmarshal(raw, &payload); err == nil {
			report.Payload = payload
		}
	}
	if err := w.Err(); err != nil {
		report.Error = err.Error()
	}

	if err := opts.render(report, func(out io.Writer) { writeProbe(out, report, w.Payload()) }); err != nil {
		return err
	}
	if state != probe.Reachable {
		return ErrUnreachable
	}
	return nil
}

func writeProbe(w io.Writer, r ProbeReport, raw json.RawMessage) {
	color := colorGreen
	if r.State != probe.Reachable.String() {
		color = colorRed
	}
	fmt.Fprintf(w, "%s%s%s\n", color, r.Label, colorReset)
	if len(raw) > 0 {
		fmt.Fprintf(w, "\n%s\n", raw)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "\n%sError: %s%s\n", colorRed, r.Error, colorReset)
	}
}

// Snapshot is one concurrent read of every list endpoint
type Snapshot struct {
	Products *types.ProductPage `json:"products" yaml:"products"`
	Users    *types.UserPage    `json:"users" yaml:"users"`
	Todos    *types.TodoPage    `json:"todos" yaml:"todos"`
}

// PageSizes are the limits used by the snapshot command
type PageSizes struct {
	Products int
	Users    int
	Todos    int
}

// TakeSnapshot fetches products, users and todos concurrently. The first failure
// cancels the remaining calls.
func TakeSnapshot(ctx context.Context, client *gateway.Client, sizes PageSizes) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := client.FetchProducts(ctx, sizes.Products, 0)
		snap.Products = page
		return err
	})
	g.Go(func() error {
		page, err := client.FetchUsers(ctx, sizes.Users, 0)
		snap.Users = page
		return err
	})
	g.Go(func() error {
		page, err := client.FetchTodos(ctx, sizes.Todos, 0)
		snap.Todos = page
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// RunSnapshot prints a concurrent snapshot of the origin
func RunSnapshot(ctx context.Context, opts Options, sizes PageSizes) error {
	snap, err := TakeSnapshot(ctx, opts.client(), sizes)
	if err != nil {
		return err
	}
	return opts.render(snap, func(w io.Writer) {
		fmt.Fprintf(w, "Products: %d of %d\n", len(snap.Products.Products), snap.Products.Total)
		fmt.Fprintf(w, "Users:    %d of %d\n", len(snap.Users.Users), snap.Users.Total)
		fmt.Fprintf(w, "Todos:    %d of %d\n", len(snap.Todos.Todos), snap.Todos.Total)
	})
}

// RunStats prints the call log summary, or clears it
func RunStats(opts Options, mgr *analytics.Manager, clear bool) error {
	if clear {
		if err := mgr.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(opts.out(), "Call log cleared")
		return nil
	}

	stats, err := mgr.Stats()
	if err != nil {
		return err
	}
	return opts.render(stats, func(w io.Writer) { writeStats(w, stats) })
}

func writeStats(w io.Writer, stats []analytics.Stats) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No calls recorded")
		return
	}

	t := table.New().Headers("Operation", "Calls", "OK", "Failed", "Network", "Avg", "Min", "Max", "Last called")
	for _, s := range stats {
		t.Row(
			s.Operation,
			strconv.Itoa(s.TotalCalls),
			strconv.Itoa(s.SuccessCount),
			strconv.Itoa(s.ErrorCount),
			strconv.Itoa(s.NetworkErrors),
			gateway.FormatDuration(int64(s.AvgDurationMs)),
			gateway.FormatDuration(s.MinDurationMs),
			gateway.FormatDuration(s.MaxDurationMs),
			s.LastCalled.Format("2006-01-02 15:04:05"),
		)
	}
	fmt.Fprintln(w, t.Render())
}

// RunMock serves the fixture origin until interrupted, printing each request as it
// is answered
func RunMock(ctx context.Context, opts Options, cfg *mock.Config) error {
	fixtures, err := mock.LoadFixtures()
	if err != nil {
		return err
	}

	server := mock.NewServer(cfg, fixtures, opts.logger())
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start fixture origin: %w", err)
	}
	fmt.Fprintf(opts.out(), "Fixture origin listening on %s (ctrl+c to stop)\n", server.GetAddress())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	served := streamRequests(ctx, opts.out(), server)

	err = server.Stop()
	served += printRequests(opts.out(), server.DrainLogs())
	fmt.Fprintf(opts.out(), "\nServed %d requests\n", served)
	return err
}

// streamRequests prints logged requests as they arrive until ctx is done and
// returns how many it printed
func streamRequests(ctx context.Context, w io.Writer, server *mock.Server) int {
	served := 0
	for {
		select {
		case <-ctx.Done():
			return served
		case <-server.NotifyChannel():
			served += printRequests(w, server.DrainLogs())
		}
	}
}

func printRequests(w io.Writer, logs []mock.RequestLog) int {
	for _, l := range logs {
		target := l.Path
		if l.Query != "" {
			target += "?" + l.Query
		}
		fmt.Fprintf(w, "%s %-6s %s %d %s\n",
			l.Timestamp.Format("15:04:05"), l.Method, target, l.Status, gateway.FormatDuration(l.Duration.Milliseconds()))
	}
	return len(logs)
}
