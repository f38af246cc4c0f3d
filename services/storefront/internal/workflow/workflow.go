// Package workflow runs the product submission: validate, resolve the
// image, create remotely, then reset the form and refresh the list.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/keamoral/ouijagames/services/storefront/internal/catalog"
	"github.com/keamoral/ouijagames/services/storefront/internal/form"
	"github.com/keamoral/ouijagames/services/storefront/internal/image"
	"github.com/keamoral/ouijagames/services/storefront/internal/observable"
	"github.com/keamoral/ouijagames/services/storefront/prometheus"
	"github.com/robbyt/go-fsm"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// Submission states
const (
	StateIdle       = "idle"
	StateValidating = "validating"
	StateSubmitting = "submitting"
)

// Transitions is the submission lifecycle. Rejected and failed attempts
// both return to idle; the user may edit and resubmit.
var Transitions = map[string][]string{
	StateIdle:       {StateValidating},
	StateValidating: {StateIdle, StateSubmitting},
	StateSubmitting: {StateIdle},
}

var errNoResolver = errors.New("no image storage configured")

// Creator creates products remotely
type Creator interface {
	CreateProduct(ctx context.Context, req catalog.ProductRequest) (*catalog.Product, error)
}

// Reloader refreshes the product list after a successful create
type Reloader interface {
	LoadProducts(ctx context.Context)
}

// ImageResolver turns a selected image into a storable reference
type ImageResolver interface {
	Resolve(ctx context.Context, sel image.Selection) (string, error)
}

// Workflow owns the draft, the selected image and the submission status
type Workflow struct {
	machine  *fsm.Machine
	creator  Creator
	reloader Reloader
	images   ImageResolver
	log      *zap.Logger
	metrics  *prometheus.Metrics

	Draft         *observable.Value[form.Draft]
	SelectedImage *observable.Value[*image.Selection]
	Loading       *observable.Value[bool]
	Err           *observable.Value[string]
	// Created is a one-shot flag; it stays true until AcknowledgeSuccess
	Created *observable.Value[bool]

	mu         sync.Mutex
	categories []catalog.Category
}

// New creates an idle workflow. images may be nil when no image storage is
// configured; submitting with a selected image then fails.
func New(creator Creator, reloader Reloader, images ImageResolver, log *zap.Logger, metrics *prometheus.Metrics) (*Workflow, error) {
	if log == nil {
		log = zap.NewNop()
	}
	machine, err := fsm.New(fsmHandler(log), StateIdle, Transitions)
	if err != nil {
		return nil, err
	}

	return &Workflow{
		machine:       machine,
		creator:       creator,
		reloader:      reloader,
		images:        images,
		log:           log,
		metrics:       metrics,
		Draft:         observable.New(form.Draft{}),
		SelectedImage: observable.New[*image.Selection](nil),
		Loading:       observable.New(false),
		Err:           observable.New(""),
		Created:       observable.New(false),
	}, nil
}

// fsmHandler routes the state machine's slog output into the zap core
func fsmHandler(log *zap.Logger) slog.Handler {
	return zapslog.NewHandler(log.Core(), zapslog.WithName("submission_fsm"))
}

// State returns the current lifecycle state
func (w *Workflow) State() string {
	return w.machine.GetState()
}

// WatchCategories follows the category list. The draft category defaults
// to the first category only while it is still unset.
func (w *Workflow) WatchCategories(categories *observable.Value[[]catalog.Category]) (cancel func()) {
	apply := func(list []catalog.Category) {
		w.mu.Lock()
		w.categories = list
		w.mu.Unlock()

		if len(list) == 0 {
			return
		}
		w.Draft.Update(func(d form.Draft) form.Draft {
			if d.CategoryID != "" {
				return d
			}
			return d.WithCategoryID(form.New(list).CategoryID)
		})
	}

	cancel = categories.Subscribe(apply)
	apply(categories.Get())
	return cancel
}

func (w *Workflow) SetName(v string) {
	w.Draft.Update(func(d form.Draft) form.Draft { return d.WithName(v) })
}

func (w *Workflow) SetDescription(v string) {
	w.Draft.Update(func(d form.Draft) form.Draft { return d.WithDescription(v) })
}

func (w *Workflow) SetPrice(v string) {
	w.Draft.Update(func(d form.Draft) form.Draft { return d.WithPrice(v) })
}

func (w *Workflow) SetStock(v string) {
	w.Draft.Update(func(d form.Draft) form.Draft { return d.WithStock(v) })
}

func (w *Workflow) SetImageURL(v string) {
	w.Draft.Update(func(d form.Draft) form.Draft { return d.WithImageURL(v) })
}

func (w *Workflow) SetCategoryID(v string) {
	w.Draft.Update(func(d form.Draft) form.Draft { return d.WithCategoryID(v) })
}

// SelectImage records a local image; it takes precedence over the typed URL
func (w *Workflow) SelectImage(sel image.Selection) {
	w.SelectedImage.Set(&sel)
	w.Draft.Update(form.Draft.ClearImageError)
}

func (w *Workflow) ClearImage() {
	w.SelectedImage.Set(nil)
}

// AcknowledgeSuccess consumes the creation notification
func (w *Workflow) AcknowledgeSuccess() {
	w.Created.Set(false)
}

func (w *Workflow) DismissError() {
	w.Err.Set("")
}

// Reset restores an empty draft with the default category and drops the
// selected image
func (w *Workflow) Reset() {
	w.mu.Lock()
	categories := w.categories
	w.mu.Unlock()

	w.Draft.Set(form.New(categories))
	w.SelectedImage.Set(nil)
}

// Submit validates the draft and creates the product. It never blocks on
// another submission: while one is running it returns OutcomeBusy without
// touching the catalog.
func (w *Workflow) Submit(ctx context.Context) Outcome {
	if err := w.machine.TransitionIfCurrentState(StateIdle, StateValidating); err != nil {
		w.log.Debug("Submission refused, another one is running", zap.String("state", w.State()))
		w.metrics.RecordSubmission(OutcomeBusy.String())
		return OutcomeBusy
	}

	selected := w.SelectedImage.Get()
	var valid bool
	draft := w.Draft.Update(func(d form.Draft) form.Draft {
		d, valid = form.Validate(d, selected != nil)
		return d
	})
	if !valid {
		w.transition(StateIdle)
		w.metrics.RecordSubmission(OutcomeRejected.String())
		return OutcomeRejected
	}

	w.transition(StateSubmitting)
	w.Loading.Set(true)
	w.Err.Set("")
	defer func() {
		w.Loading.Set(false)
		w.transition(StateIdle)
	}()

	outcome := w.create(ctx, draft, selected)
	w.metrics.RecordSubmission(outcome.String())
	return outcome
}

func (w *Workflow) create(ctx context.Context, draft form.Draft, selected *image.Selection) Outcome {
	imageRef := draft.ImageURL
	if selected != nil {
		if w.images == nil {
			return w.fail(errNoResolver)
		}
		ref, err := w.images.Resolve(ctx, *selected)
		if err != nil {
			return w.fail(err)
		}
		imageRef = ref
	}

	req, err := draft.Request(imageRef)
	if err != nil {
		return w.fail(err)
	}

	product, err := w.creator.CreateProduct(ctx, req)
	if err != nil {
		return w.fail(err)
	}

	// the catalog may accept the create without echoing the product
	if product != nil {
		w.log.Info("Product created", zap.Int("product_id", product.ID), zap.String("name", product.Name))
	} else {
		w.log.Info("Product created", zap.String("name", req.Name))
	}
	w.Created.Set(true)
	w.Reset()
	w.reloader.LoadProducts(ctx)
	return OutcomeCreated
}

// fail keeps the draft as typed so the user can retry
func (w *Workflow) fail(err error) Outcome {
	w.log.Warn("Product submission failed", zap.Error(err))
	w.Err.Set(catalog.Describe(err))
	return OutcomeFailed
}

func (w *Workflow) transition(state string) {
	if err := w.machine.Transition(state); err != nil {
		w.log.Error("Invalid submission state transition",
			zap.String("from", w.State()),
			zap.String("to", state),
			zap.Error(err))
	}
}
