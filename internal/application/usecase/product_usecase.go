package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-unidades/internal/application/dto"
	"github.com/jhoicas/inventario-unidades/internal/domain"
	"github.com/jhoicas/inventario-unidades/internal/domain/entity"
	"github.com/jhoicas/inventario-unidades/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock solo cambia vía ajustes de stock.
type ProductUseCase struct {
	repo  repository.ProductRepository
	units repository.UnitRepository
	now   func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, units repository.UnitRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, units: units, now: time.Now}
}

// Create crea un nuevo producto. El stock inicial deja sus unidades pendientes de crear.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock != nil && *in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		Name:            name,
		SKU:             strings.TrimSpace(in.SKU),
		Category:        in.Category,
		Department:      in.Department,
		SupplierID:      in.SupplierID,
		Warehouse:       in.Warehouse,
		Price:           in.Price,
		Stock:           in.Stock,
		MinStock:        in.MinStock,
		HasSerialNumber: in.HasSerialNumber,
		OrderNumber:     strings.TrimSpace(in.OrderNumber),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos no relacionados con el stock. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Department != nil {
		product.Department = *in.Department
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.Warehouse != nil {
		product.Warehouse = *in.Warehouse
	}
	if in.Price != nil {
		product.Price = in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = in.MinStock
	}
	if in.OrderNumber != nil {
		product.OrderNumber = strings.TrimSpace(*in.OrderNumber)
	}
	if in.HasSerialNumber != nil && *in.HasSerialNumber && !product.HasSerialNumber {
		if err := uc.checkSerialsPresent(ctx, product.ID); err != nil {
			return nil, err
		}
	}
	if in.HasSerialNumber != nil {
		product.HasSerialNumber = *in.HasSerialNumber
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// checkSerialsPresent impide marcar con serie un producto con unidades activas sin serie.
func (uc *ProductUseCase) checkSerialsPresent(ctx context.Context, productID string) error {
	units, err := uc.units.ListByProduct(ctx, productID, false)
	if err != nil {
		return err
	}
	for _, u := range units {
		if u.SerialNumber == "" {
			return fmt.Errorf("%w: la unidad %s no tiene número de serie", domain.ErrConflict, u.ID)
		}
	}
	return nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Name:            p.Name,
		SKU:             p.SKU,
		Category:        p.Category,
		Department:      p.Department,
		SupplierID:      p.SupplierID,
		Warehouse:       p.Warehouse,
		Price:           p.Price,
		Stock:           p.Stock,
		MinStock:        p.MinStock,
		HasSerialNumber: p.HasSerialNumber,
		OrderNumber:     p.OrderNumber,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
