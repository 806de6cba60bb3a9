// Package console is a line-oriented operator console over the sale core.
// Each input line is one command; output is plain text.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/orbit-console/internal/domain/access"
	"github.com/xenking/orbit-console/internal/domain/customer"
	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/domain/role"
	"github.com/xenking/orbit-console/internal/domain/sale"
	"github.com/xenking/orbit-console/internal/domain/session"
	"github.com/xenking/orbit-console/internal/querycache"
	"github.com/xenking/orbit-console/pkg/health"
	"github.com/xenking/orbit-console/pkg/httptransport"
)

const (
	searchLimit     = 8
	defaultPageSize = 100
	prompt          = "> "
)

// Identity is the signed-in operator.
type Identity interface {
	role.Subject
	User() *session.User
	Organization() *session.Organization
	Logout()
}

// StatusReporter reports dependency reachability.
type StatusReporter interface {
	Healthy() bool
	Status() []health.CheckStatus
}

// Deps are the collaborators a Console drives.
type Deps struct {
	Identity   Identity
	Gate       *access.Gate
	Cache      *querycache.Cache
	Products   product.Provider
	Categories product.CategoryProvider
	Customers  customer.Provider
	Sales      sale.Lister
	Movements  product.MovementLister
	SaleDetail sale.Getter
	History    sale.CustomerHistory
	Submission *sale.Submission
	Cancel     *sale.CancelService
	Stock      *product.StockService
	Health     StatusReporter // optional
	PageSize   int

	// RequestTimeout bounds every command except submit, which uses the
	// submission's own timeout.
	RequestTimeout time.Duration
}

// Console reads commands from in and writes results to out.
type Console struct {
	deps Deps
	in   io.Reader
	out  io.Writer

	// Last listings, so commands can refer to rows by number.
	found     []product.Product
	products  []product.Product
	customers []customer.Customer
	sales     []sale.Sale

	commands map[string]command
	order    []string
	done     bool
}

// New creates a Console.
func New(deps Deps, in io.Reader, out io.Writer) *Console {
	if deps.PageSize <= 0 {
		deps.PageSize = defaultPageSize
	}
	c := &Console{
		deps:     deps,
		in:       in,
		out:      out,
		commands: make(map[string]command),
	}
	for _, cmd := range builtins() {
		c.commands[cmd.name] = cmd
		c.order = append(c.order, cmd.name)
	}
	return c
}

// Run processes commands until quit, logout, end of input or ctx is done.
// Cancellation is not an error.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	c.greet()
	for !c.done {
		c.printf("%s", prompt)
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return errors.Wrap(err, "read input")
					}
				default:
				}
				return nil
			}
			c.Exec(ctx, line)
		}
	}
	return nil
}

// Exec runs a single command line.
func (c *Console) Exec(ctx context.Context, line string) {
	name, args, rest := parse(line)
	if name == "" {
		return
	}

	cmd, ok := c.commands[name]
	if !ok || (cmd.allowed != nil && !cmd.allowed(c)) {
		// Denied commands look exactly like unknown ones.
		c.println("Unknown command. Type help for the list.")
		return
	}

	// Every API call made by one command carries the same request id.
	requestID := uuid.NewString()
	ctx = httptransport.WithRequestID(ctx, requestID)
	ctx = zctx.With(ctx, zap.String("request_id", requestID))
	zctx.From(ctx).Debug("Command", zap.String("command", name))
	if !cmd.ownDeadline && c.deps.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.deps.RequestTimeout)
		defer cancel()
	}
	if err := cmd.run(c, ctx, args, rest); err != nil {
		if errors.Is(err, errBadArgs) {
			err = &usageError{usage: cmd.usage}
		}
		c.report(ctx, err)
	}
}

func (c *Console) greet() {
	u := c.deps.Identity.User()
	if u == nil {
		return
	}
	name, _ := role.NameOf(c.deps.Identity)
	org := ""
	if o := c.deps.Identity.Organization(); o != nil {
		org = " @ " + o.Name
	}
	c.printf("Signed in as %s (%s)%s\n", u.Email, name, org)
}

// report prints err the way an operator needs to see it.
func (c *Console) report(ctx context.Context, err error) {
	var (
		fe *sale.ValidationError
		ue *usageError
	)
	switch {
	case errors.As(err, &fe):
		c.printf("Invalid %s: %s\n", fe.Field, fe.Message)
	case errors.Is(err, sale.ErrOutcomeUnknown):
		c.println("The server did not answer in time. Check the sales list before retrying.")
	case errors.Is(err, sale.ErrSubmitInFlight):
		c.println("A submission is in progress.")
	case errors.Is(err, sale.ErrDialogClosed):
		c.println("No sale is open. Type new to start one.")
	case errors.Is(err, sale.ErrNotFound), errors.Is(err, product.ErrNotFound):
		c.println("Not found on the server. List again to refresh.")
	case errors.As(err, &ue):
		c.printf("Usage: %s\n", ue.usage)
	default:
		zctx.From(ctx).Warn("Command failed", zap.Error(err))
		c.printf("Error: %v\n", err)
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

// parse splits a line into a lower-cased command, its arguments and the raw
// text following the command.
func parse(line string) (name string, args []string, rest string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, ""
	}
	name, rest, _ = strings.Cut(line, " ")
	return strings.ToLower(name), strings.Fields(rest), strings.TrimSpace(rest)
}
