package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/idilsaglam/sliders/internal/allocation"
	"github.com/idilsaglam/sliders/internal/config"
	"github.com/idilsaglam/sliders/internal/store"
	"github.com/idilsaglam/sliders/internal/store/jsonstore"
	"github.com/idilsaglam/sliders/internal/store/sqlitestore"
	"github.com/idilsaglam/sliders/internal/textlimit"
	"github.com/idilsaglam/sliders/internal/tui"
	"github.com/idilsaglam/sliders/internal/ui"
)

// Options tune behavior from root flags and the environment.
type Options struct {
	Config config.Config
	Group  bool // list grouped by allocated/unallocated

	Logger     *zap.Logger
	HTTPClient *http.Client
	Out        io.Writer
	Now        func() time.Time
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o Options) log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp(opt.out())
		return 2
	}
	cmd, a := args[0], args[1:]
	opt.Logger = opt.log().With(zap.String("cmd", cmd))

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.out())
		return 0

	case "ls":
		return doList(ctx, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: sliders add <name...>")
			return 2
		}
		return doAdd(ctx, opt, strings.Join(a, " "))

	case "set":
		if len(a) != 2 {
			ui.Fail("usage: sliders set <id> <value>")
			return 2
		}
		id, err := allocation.ParseID(a[0])
		if err != nil {
			ui.Fail("set: " + err.Error())
			return 2
		}
		v, err := decimal.NewFromString(a[1])
		if err != nil {
			ui.Fail("set: not a number: " + a[1])
			return 2
		}
		return doSet(ctx, opt, id, v)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: sliders rm <id>")
			return 2
		}
		id, err := allocation.ParseID(a[0])
		if err != nil {
			ui.Fail("rm: " + err.Error())
			return 2
		}
		return doRemove(ctx, opt, id)

	case "rename":
		if len(a) < 2 {
			ui.Fail("usage: sliders rename <id> <name...>")
			return 2
		}
		id, err := allocation.ParseID(a[0])
		if err != nil {
			ui.Fail("rename: " + err.Error())
			return 2
		}
		return doRename(ctx, opt, id, strings.Join(a[1:], " "))

	case "export":
		if len(a) > 1 {
			ui.Fail("usage: sliders export [url]")
			return 2
		}
		url := ""
		if len(a) == 1 {
			url = a[0]
		}
		return doExport(ctx, opt, url)

	case "import":
		if len(a) != 1 {
			ui.Fail("usage: sliders import <url>")
			return 2
		}
		return doImport(ctx, opt, a[0])

	case "report":
		if len(a) != 1 {
			ui.Fail("usage: sliders report <file.pdf>")
			return 2
		}
		return doReport(ctx, opt, a[0])

	case "tui":
		return doTUI(ctx, opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp(os.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `sliders - share a fixed total across named entries

Usage:
  sliders [flags] <subcommand> [args]

Subcommands:
  ls                   List entries with their share of the total
  add <name...>        Add a new entry at 0
  set <id> <value>     Set an entry's value (refused if the total would leave its bounds)
  rm <id>              Remove an entry
  rename <id> <name>   Rename an entry
  export [url]         Print the {id, value} snapshot as JSON, or POST it to url
  import <url>         Replace all entries with a JSON list fetched from url
  report <file.pdf>    Write a PDF report
  tui                  Interactive sliders

Examples:
  sliders add "Food bank"
  sliders set 1 40
  sliders --max 250 ls
  sliders export > snapshot.json
`)
}

// -------------- plumbing ----------------

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	path := cfg.ResolvedDataPath()
	switch strings.ToLower(cfg.Store) {
	case config.StoreSQLite:
		return sqlitestore.Open(ctx, path)
	case config.StoreJSON:
		return jsonstore.New(path)
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// session is an opened store plus the set seeded from it.
type session struct {
	store store.Store
	set   *allocation.Set
}

func openSession(ctx context.Context, opt Options) (*session, error) {
	st, err := openStore(ctx, opt.Config)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	entries, err := st.Load(ctx)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load: %w", err)
	}
	set, err := allocation.New(opt.Config.Allocation(), entries, allocation.WithLogger(opt.log()))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &session{store: st, set: set}, nil
}

func (s *session) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.set.Entries()); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (s *session) close(log *zap.Logger) {
	if err := s.store.Close(); err != nil {
		log.Warn("close store", zap.Error(err))
	}
}

// limitName applies the same cap the interactive name field enforces.
func limitName(opt Options, name string) string {
	if opt.Config.NameLimit <= 0 {
		return name
	}
	lim := textlimit.Limiter{Max: opt.Config.NameLimit, HardLimit: true, ForceTruncate: true}
	out, _, accepted := lim.Apply(name)
	if !accepted {
		ui.Warn(fmt.Sprintf("name cut to %d characters: %s", lim.Max, out))
	}
	return out
}

func fail(opt Options, err error) int {
	opt.log().Error("command failed", zap.Error(err))
	ui.Fail(err.Error())
	return 1
}

// -------------- subcommand impls ----------------

func doList(ctx context.Context, opt Options) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	ui.Panel(opt.out(), listLines(s.set, opt.Group))
	return 0
}

func doAdd(ctx context.Context, opt Options, name string) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	e, err := s.set.AddEntry(limitName(opt, name), 0)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	if err := s.save(ctx); err != nil {
		return fail(opt, err)
	}
	ui.OK(fmt.Sprintf("added #%d %s", e.ID, e.Name))
	return 0
}

func doSet(ctx context.Context, opt Options, id int64, v decimal.Decimal) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	if _, ok := s.set.Entry(id); !ok {
		ui.Fail(fmt.Sprintf("set: no entry with id %d", id))
		fmt.Fprintln(os.Stderr, ui.CErr(ui.Current().Muted, "Hint: run `sliders ls` to see valid ids"))
		return 2
	}
	res := s.set.SetValue(id, v)
	if !res.Applied {
		lo, _ := s.set.MinFeasibleValue(id)
		hi, _ := s.set.MaxFeasibleValue(id)
		ui.Fail(fmt.Sprintf("set: %s does not fit; entry %d can take %s to %s (total %s)", v, id, lo, hi, res.Total))
		return 1
	}
	if err := s.save(ctx); err != nil {
		return fail(opt, err)
	}
	ui.OK(fmt.Sprintf("set #%d to %s (total %s, remaining %s)", id, v, res.Total, s.set.Remaining()))
	return 0
}

func doRemove(ctx context.Context, opt Options, id int64) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	if _, ok := s.set.Entry(id); !ok {
		ui.OK(fmt.Sprintf("nothing to remove: no entry %d", id))
		return 0
	}
	e, removed := s.set.RemoveEntry(id)
	if !removed {
		ui.Fail(fmt.Sprintf("rm: removing entry %d would drop the total below %s", id, s.set.Bounds().Min))
		return 1
	}
	if err := s.save(ctx); err != nil {
		return fail(opt, err)
	}
	ui.OK("removed " + e.Name)
	return 0
}

func doRename(ctx context.Context, opt Options, id int64, name string) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	if err := s.set.Rename(id, limitName(opt, name)); err != nil {
		ui.Fail("rename: " + err.Error())
		return 2
	}
	if err := s.save(ctx); err != nil {
		return fail(opt, err)
	}
	ui.OK("renamed")
	return 0
}

func doImport(ctx context.Context, opt Options, url string) int {
	entries, err := jsonstore.Fetch(ctx, opt.HTTPClient, url)
	if err != nil {
		return fail(opt, err)
	}
	set, err := allocation.New(opt.Config.Allocation(), entries)
	if err != nil {
		return fail(opt, fmt.Errorf("import: %w", err))
	}
	st, err := openStore(ctx, opt.Config)
	if err != nil {
		return fail(opt, err)
	}
	s := &session{store: st, set: set}
	defer s.close(opt.log())
	if err := s.save(ctx); err != nil {
		return fail(opt, err)
	}
	ui.OK(fmt.Sprintf("imported %d entries (total %s)", set.Len(), set.Total()))
	return 0
}

func doTUI(ctx context.Context, opt Options) int {
	s, err := openSession(ctx, opt)
	if err != nil {
		return fail(opt, err)
	}
	defer s.close(opt.log())

	err = tui.Run(ctx, s.set, tui.Options{
		NameLimit: opt.Config.NameLimit,
		Save:      s.store.Save,
		Logger:    opt.log(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fail(opt, err)
	}
	return 0
}
