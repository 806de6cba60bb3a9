package sale

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/orbit-console/internal/domain/cart"
	"github.com/xenking/orbit-console/internal/domain/pricing"
	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/querycache"
	"github.com/xenking/orbit-console/internal/validation"
)

// DefaultSubmitTimeout bounds how long Submit waits for the server.
const DefaultSubmitTimeout = 30 * time.Second

// State is the submission lifecycle of one sale dialog.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Option configures a Submission.
type Option func(*Submission)

// WithTimeout overrides DefaultSubmitTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Submission) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Submission) {
		s.metrics = m
	}
}

// Submission owns the cart and form of one sale dialog and drives a single
// atomic create call. At most one submission is in flight at a time; while
// it is, edits and further submits return ErrSubmitInFlight.
type Submission struct {
	creator Creator
	cache   Invalidator
	metrics *Metrics
	timeout time.Duration

	mu      sync.Mutex
	open    bool
	state   State
	cart    cart.Cart
	form    Form
	lastErr error
}

// NewSubmission creates a closed dialog.
func NewSubmission(creator Creator, cache Invalidator, opts ...Option) *Submission {
	s := &Submission{
		creator: creator,
		cache:   cache,
		timeout: DefaultSubmitTimeout,
		form:    DefaultForm(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a fresh dialog with an empty cart and default form.
func (s *Submission) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Submitting {
		return ErrSubmitInFlight
	}
	s.reset()
	s.open = true
	return nil
}

// Close discards the cart and form.
func (s *Submission) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Submitting {
		return ErrSubmitInFlight
	}
	s.reset()
	return nil
}

func (s *Submission) reset() {
	s.open = false
	s.state = Idle
	s.cart = cart.Cart{}
	s.form = DefaultForm()
	s.lastErr = nil
}

// edit applies fn to the cart and form while the dialog is editable.
func (s *Submission) edit(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return ErrDialogClosed
	}
	if s.state == Submitting {
		return ErrSubmitInFlight
	}
	fn()
	if s.state == Failed {
		s.state = Idle
	}
	return nil
}

// AddItem adds one unit of p.
func (s *Submission) AddItem(p product.Product) error {
	return s.edit(func() { s.cart = s.cart.Add(p) })
}

// UpdateQuantity changes the quantity of a line by delta.
func (s *Submission) UpdateQuantity(id uuid.UUID, delta int) error {
	return s.edit(func() { s.cart = s.cart.UpdateQuantity(id, delta) })
}

// RemoveItem drops a line.
func (s *Submission) RemoveItem(id uuid.UUID) error {
	return s.edit(func() { s.cart = s.cart.Remove(id) })
}

// UpdateForm applies fn to the current form.
func (s *Submission) UpdateForm(fn func(f *Form)) error {
	return s.edit(func() { fn(&s.form) })
}

// Cart returns the current cart.
func (s *Submission) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Form returns the current form.
func (s *Submission) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// State returns the current lifecycle state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsOpen reports whether the dialog is open.
func (s *Submission) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Err returns the error of the last failed submission, if any.
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Preview returns the running totals. Unparseable amounts count as zero
// here; Submit reports them as validation errors.
func (s *Submission) Preview() pricing.Preview {
	s.mu.Lock()
	c, f := s.cart, s.form
	s.mu.Unlock()

	discount, _ := validation.ParseMoney(f.Discount)
	tax, _ := validation.ParseMoney(f.Tax)
	return pricing.Compute(c, discount, tax)
}

// Submit validates the dialog and sends one create request. On success the
// dialog is reset and closed and the sales and products reads are
// invalidated. On failure the cart and form are kept for a manual retry.
func (s *Submission) Submit(ctx context.Context) (*Sale, error) {
	req, err := s.begin()
	if err != nil {
		if validation.IsFieldError(err) {
			s.metrics.record(ctx, OutcomeInvalid, 0)
		}
		return nil, err
	}

	lg := zctx.From(ctx)
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	created, err := s.creator.Create(callCtx, req)
	cancel()
	elapsed := time.Since(start)
	if err == nil && created == nil {
		err = errors.New("empty response")
	}

	if err != nil {
		outcome := OutcomeFailed
		err = errors.Wrap(err, "create sale")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			outcome = OutcomeUnknown
			err = &OutcomeUnknownError{Err: err}
		}
		s.fail(err)
		s.metrics.record(ctx, outcome, elapsed)
		lg.Warn("Sale submission failed",
			zap.String("outcome", outcome),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	s.succeed()
	s.cache.Invalidate(querycache.Sales, querycache.Products)
	s.metrics.record(ctx, OutcomeSucceeded, elapsed)
	lg.Info("Sale recorded",
		zap.String("invoice", created.InvoiceNumber),
		zap.Stringer("sale_id", created.ID),
		zap.String("total", created.Total.StringFixed(2)),
		zap.Duration("elapsed", elapsed),
	)
	return created, nil
}

// begin moves Idle → Validating → Submitting, or back to Idle on a local
// validation failure.
func (s *Submission) begin() (CreateRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return CreateRequest{}, ErrDialogClosed
	}
	if s.state == Submitting {
		return CreateRequest{}, ErrSubmitInFlight
	}

	s.state = Validating
	req, err := s.form.Request(s.cart)
	if err != nil {
		s.state = Idle
		return CreateRequest{}, err
	}
	s.state = Submitting
	s.lastErr = nil
	return req, nil
}

func (s *Submission) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Failed
	s.lastErr = err
}

func (s *Submission) succeed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.state = Succeeded
}
