package services

import (
	"context"
	"errors"
	"time"

	"github.com/franciscosanchezn/pizza-store/internal/models"
)

// OperationRecorder receives one observation per store call
type OperationRecorder interface {
	RecordStoreOperation(operation, outcome string, duration time.Duration)
}

type instrumentedPizzaService struct {
	next     PizzaService
	recorder OperationRecorder
}

// NewInstrumentedPizzaService wraps next so every call is reported to recorder
func NewInstrumentedPizzaService(next PizzaService, recorder OperationRecorder) PizzaService {
	return &instrumentedPizzaService{next: next, recorder: recorder}
}

func (s *instrumentedPizzaService) ListPizzas(ctx context.Context) ([]models.Pizza, error) {
	start := time.Now()
	pizzas, err := s.next.ListPizzas(ctx)
	s.observe("list", start, err)
	return pizzas, err
}

func (s *instrumentedPizzaService) GetPizza(ctx context.Context, id int) (models.Pizza, error) {
	start := time.Now()
	pizza, err := s.next.GetPizza(ctx, id)
	s.observe("get", start, err)
	return pizza, err
}

func (s *instrumentedPizzaService) CreatePizza(ctx context.Context, pizza models.Pizza) (models.Pizza, error) {
	start := time.Now()
	created, err := s.next.CreatePizza(ctx, pizza)
	s.observe("create", start, err)
	return created, err
}

func (s *instrumentedPizzaService) UpdatePizza(ctx context.Context, id int, pizza models.Pizza) error {
	start := time.Now()
	err := s.next.UpdatePizza(ctx, id, pizza)
	s.observe("update", start, err)
	return err
}

func (s *instrumentedPizzaService) DeletePizza(ctx context.Context, id int) (models.Pizza, error) {
	start := time.Now()
	deleted, err := s.next.DeletePizza(ctx, id)
	s.observe("delete", start, err)
	return deleted, err
}

func (s *instrumentedPizzaService) observe(operation string, start time.Time, err error) {
	s.recorder.RecordStoreOperation(operation, Outcome(err), time.Since(start))
}

// Outcome classifies a store error into a short label
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrPizzaNotFound):
		return "not_found"
	case errors.Is(err, ErrIDMismatch):
		return "bad_request"
	case errors.Is(err, ErrConcurrentUpdate):
		return "conflict"
	default:
		return "error"
	}
}
