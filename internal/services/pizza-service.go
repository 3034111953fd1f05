package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrPizzaNotFound is returned when no pizza has the requested id
	ErrPizzaNotFound = errors.New("pizza not found")
	// ErrIDMismatch is returned when the body id differs from the target id
	ErrIDMismatch = errors.New("pizza id does not match target id")
	// ErrConcurrentUpdate is returned when another writer changed the pizza between read and write
	ErrConcurrentUpdate = errors.New("pizza was modified concurrently")
)

// PizzaService provides methods to interact with the pizza database
type PizzaService interface {
	// ListPizzas retrieves all pizzas ordered by id
	ListPizzas(ctx context.Context) ([]models.Pizza, error)
	// GetPizza retrieves a pizza by its ID
	GetPizza(ctx context.Context, id int) (models.Pizza, error)
	// CreatePizza stores a new pizza and returns it with its assigned ID
	CreatePizza(ctx context.Context, pizza models.Pizza) (models.Pizza, error)
	// UpdatePizza replaces the name and description of the pizza with the given ID
	UpdatePizza(ctx context.Context, id int, pizza models.Pizza) error
	// DeletePizza removes a pizza and returns its last stored value
	DeletePizza(ctx context.Context, id int) (models.Pizza, error)
}

// pizzaService is the implementation of the PizzaService interface
type pizzaService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewPizzaService creates a new instance of PizzaService
func NewPizzaService(db *gorm.DB, log logrus.FieldLogger) PizzaService {
	return &pizzaService{db: db, log: log.WithField("component", "pizza_service")}
}

func (s *pizzaService) ListPizzas(ctx context.Context) ([]models.Pizza, error) {
	pizzas := []models.Pizza{}
	if err := s.db.WithContext(ctx).Order("id").Find(&pizzas).Error; err != nil {
		return nil, fmt.Errorf("list pizzas: %w", err)
	}
	return pizzas, nil
}

func (s *pizzaService) GetPizza(ctx context.Context, id int) (models.Pizza, error) {
	return findPizza(s.db.WithContext(ctx), id)
}

func (s *pizzaService) CreatePizza(ctx context.Context, pizza models.Pizza) (models.Pizza, error) {
	pizza.ID = 0
	pizza.Version = 1
	if err := s.db.WithContext(ctx).Create(&pizza).Error; err != nil {
		return models.Pizza{}, fmt.Errorf("create pizza: %w", err)
	}
	return pizza, nil
}

func (s *pizzaService) UpdatePizza(ctx context.Context, id int, pizza models.Pizza) error {
	if pizza.ID != id {
		return ErrIDMismatch
	}

	db := s.db.WithContext(ctx)
	current, err := findPizza(db, id)
	if err != nil {
		return err
	}

	result := db.Model(&models.Pizza{}).
		Where("id = ? AND version = ?", id, current.Version).
		Updates(map[string]interface{}{
			"name":        pizza.Name,
			"description": pizza.Description,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("update pizza %d: %w", id, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// The row changed or vanished since it was read.
	if _, err := findPizza(db, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"id":           id,
		"read_version": current.Version,
	}).Warn("Version moved between read and write")
	return fmt.Errorf("update pizza %d: %w", id, ErrConcurrentUpdate)
}

func (s *pizzaService) DeletePizza(ctx context.Context, id int) (models.Pizza, error) {
	var deleted models.Pizza
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pizza, err := findPizza(tx, id)
		if err != nil {
			return err
		}
		result := tx.Delete(&models.Pizza{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete pizza %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPizzaNotFound
		}
		deleted = pizza
		return nil
	})
	if err != nil {
		return models.Pizza{}, err
	}
	return deleted, nil
}

// findPizza loads one pizza, translating gorm's not-found error
func findPizza(db *gorm.DB, id int) (models.Pizza, error) {
	var pizza models.Pizza
	if err := db.First(&pizza, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Pizza{}, ErrPizzaNotFound
		}
		return models.Pizza{}, fmt.Errorf("get pizza %d: %w", id, err)
	}
	return pizza, nil
}
