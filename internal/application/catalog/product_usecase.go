package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
	"github.com/jhoicas/Comercial-api/pkg/logger"
)

// ProductUseCase gestión del catálogo. Una variante de precio (ParentID no
// vacío) conserva precio propio pero delega todo su stock en el padre.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	log         *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, auditRepo repository.AuditRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, auditRepo: auditRepo, log: log}
}

// Create da de alta un producto o una variante de precio.
func (uc *ProductUseCase) Create(ctx context.Context, userID, username string, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.Code == "" || in.Name == "" || in.Price.IsNegative() || in.TaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	switch in.Unit {
	case entity.UnitBag25, entity.UnitBag50, entity.UnitBulk:
	default:
		return nil, domain.ErrInvalidInput
	}

	var parentID *string
	if in.ParentID != "" {
		parent, err := uc.productRepo.GetByID(in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		// Sin cadenas: una variante no puede colgar de otra variante.
		if parent.IsChild() {
			return nil, domain.ErrInvalidInput
		}
		if !in.InitialStock.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		parentID = &in.ParentID
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Code:         in.Code,
		Name:         in.Name,
		Unit:         in.Unit,
		Price:        in.Price,
		CostPrice:    in.CostPrice,
		TaxRate:      in.TaxRate,
		InitialStock: in.InitialStock,
		CurrentStock: in.InitialStock,
		Category:     in.Category,
		ParentID:     parentID,
		Active:       true,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	_ = uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Action:    "PRODUCT_CREATED",
		Details:   product.Code + " " + product.Name,
		EntityRef: product.ID,
		CreatedAt: now,
	})
	return product, nil
}

// Get devuelve un producto por id.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List devuelve productos paginados.
func (uc *ProductUseCase) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(activeOnly, limit, offset)
}

// UpdatePrice cambia el precio dejando rastro en price_history. El precio de
// una variante es independiente del de su padre.
func (uc *ProductUseCase) UpdatePrice(ctx context.Context, userID, username, id string, in dto.UpdatePriceRequest) error {
	if !in.Price.IsPositive() {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.productRepo.UpdatePrice(id, in.Price, in.Note, userID); err != nil {
		return err
	}
	_ = uc.auditRepo.Create(&entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Action:    "PRODUCT_PRICE_UPDATED",
		Details:   product.Code + " " + product.Price.StringFixed(2) + " -> " + in.Price.StringFixed(2),
		EntityRef: id,
		CreatedAt: time.Now(),
	})
	return nil
}
