package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dwikikusuma/marki-secure/internal/checkout/domain"
)

var (
	ErrAuthRequired       = errors.New("must sign in before checkout")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

type Service struct {
	Cart      CartStore
	Purchaser Purchaser

	log      *slog.Logger
	recorder Recorder
	now      func() time.Time

	inFlight atomic.Bool
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(cart CartStore, purchaser Purchaser, opts ...Option) *Service {
	s := &Service{
		Cart:      cart,
		Purchaser: purchaser,
		log:       slog.Default(),
		recorder:  nopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("component", "checkout")
	return s
}

// Checkout purchases every cart item for user, one request at a time and in
// cart order. A failed item never stops the loop. Afterwards the cart is
// cleared when everything succeeded, or reduced to the failed items.
//
// Once the loop starts it runs to completion even if ctx is cancelled.
// Calls that overlap a running checkout get ErrCheckoutInProgress.
func (s *Service) Checkout(ctx context.Context, user string) (domain.Result, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return domain.Result{}, ErrAuthRequired
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.Result{}, ErrCheckoutInProgress
	}
	defer s.inFlight.Store(false)

	items, err := s.Cart.Items(ctx)
	if err != nil {
		return domain.Result{}, fmt.Errorf("read cart: %w", err)
	}
	if len(items) == 0 {
		s.log.Debug("checkout on empty cart")
		return domain.Result{}, nil
	}

	runCtx := context.WithoutCancel(ctx)
	started := s.now()
	log := s.log.With(slog.String("user", user), slog.Int("items", len(items)))
	log.Info("checkout started")

	var res domain.Result
	for _, it := range items {
		if err := s.Purchaser.Purchase(runCtx, it.ID, user); err != nil {
			log.Warn("purchase failed", slog.Int64("product_id", it.ID), slog.Any("err", err))
			res.Failed = append(res.Failed, domain.Failure{Item: it, Error: err.Error()})
			s.recorder.ItemAttempted(OutcomeFailed)
			continue
		}
		log.Debug("purchase succeeded", slog.Int64("product_id", it.ID))
		res.Succeeded = append(res.Succeeded, it)
		s.recorder.ItemAttempted(OutcomeSucceeded)
	}

	s.recorder.CheckoutFinished(s.now().Sub(started), len(res.Succeeded), len(res.Failed))
	log.Info("checkout finished",
		slog.Int("succeeded", len(res.Succeeded)),
		slog.Int("failed", len(res.Failed)),
	)

	if err := s.reconcile(runCtx, res); err != nil {
		return res, fmt.Errorf("reconcile cart: %w", err)
	}
	return res, nil
}

func (s *Service) reconcile(ctx context.Context, res domain.Result) error {
	if len(res.Failed) == 0 {
		return s.Cart.Clear(ctx)
	}
	return s.Cart.Replace(ctx, res.FailedItems())
}
