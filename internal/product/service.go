// Package product maintains the product catalog through the remote data
// gateway.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/validation"
)

type Gateway interface {
	Products(ctx context.Context, description string) ([]gateway.Product, error)
	ProductByID(ctx context.Context, id int64) (*gateway.Product, error)
	CreateProduct(ctx context.Context, payload gateway.ProductPayload) (*gateway.Product, error)
	UpdateProduct(ctx context.Context, id int64, payload gateway.ProductPayload) (*gateway.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Input is a product as entered by the operator. An empty status means
// active.
type Input struct {
	Description string          `json:"descricao" validate:"required"`
	Price       decimal.Decimal `json:"valor"`
	Status      string          `json:"status" validate:"omitempty,oneof=Ativo Inativo"`
}

// ValidationError rejects an input before any network call. Details maps a
// field name to its problem.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("product: validation failed: %s", e.Message)
}

var fieldMessages = map[string]string{
	"descricao.required": "description must not be empty",
	"status.oneof":       "status must be Ativo or Inativo",
}

type Service struct {
	gw       Gateway
	validate *validator.Validate
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw, validate: validation.New()}
}

func (s *Service) List(ctx context.Context, description string) ([]gateway.Product, error) {
	products, err := s.gw.Products(ctx, strings.TrimSpace(description))
	if err != nil {
		log.Error().Err(err).Str("description", description).Msg("service: failed to list products")
		return nil, fmt.Errorf("product: failed to list products: %w", err)
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*gateway.Product, error) {
	p, err := s.gw.ProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product: failed to get product %d: %w", id, err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*gateway.Product, error) {
	payload, err := s.payload(in)
	if err != nil {
		return nil, err
	}
	p, err := s.gw.CreateProduct(ctx, payload)
	if err != nil {
		log.Error().Err(err).Str("description", payload.Description).Msg("service: failed to create product")
		return nil, fmt.Errorf("product: failed to create product: %w", err)
	}
	log.Info().Int64("product_id", p.ID).Msg("service: product created successfully")
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*gateway.Product, error) {
	payload, err := s.payload(in)
	if err != nil {
		return nil, err
	}
	p, err := s.gw.UpdateProduct(ctx, id, payload)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to update product")
		return nil, fmt.Errorf("product: failed to update product %d: %w", id, err)
	}
	log.Info().Int64("product_id", id).Msg("service: product updated successfully")
	return p, nil
}

// Delete removes the product. The backend refuses products that carts still
// reference; its message is kept in the returned error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.gw.DeleteProduct(ctx, id); err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("product: failed to delete product %d: %w", id, err)
	}
	log.Info().Int64("product_id", id).Msg("service: product deleted successfully")
	return nil
}

// payload trims and checks in. The price is rounded to cents.
func (s *Service) payload(in Input) (gateway.ProductPayload, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = gateway.ProductActive
	}

	verr := &ValidationError{Details: map[string]string{}}
	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return gateway.ProductPayload{}, &ValidationError{Message: err.Error()}
		}
		for _, fe := range fieldErrs {
			msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
			if !ok {
				msg = fe.Field() + " failed on " + fe.Tag()
			}
			verr.Details[fe.Field()] = msg
		}
	}
	price := in.Price.Round(2)
	if !price.IsPositive() {
		verr.Details["valor"] = "price must be greater than zero"
	}
	if len(verr.Details) > 0 {
		for _, field := range []string{"descricao", "valor", "status"} {
			if msg, ok := verr.Details[field]; ok {
				verr.Message = msg
				break
			}
		}
		return gateway.ProductPayload{}, verr
	}

	return gateway.ProductPayload{Description: in.Description, Price: price, Status: in.Status}, nil
}
