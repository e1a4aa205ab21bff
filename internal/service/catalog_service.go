package service

import (
	"context"

	"shopfront/internal/models"
	"shopfront/internal/store"
	"shopfront/internal/util"

	"go.uber.org/zap"
)

// CatalogService handles category and product browsing and management.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// Home returns the storefront landing data: all categories, and the
// products of one category when a filter is given.
func (s *CatalogService) Home(ctx context.Context, categoryID *int64) ([]models.Product, []models.Category, error) {
	products, err := s.store.GetProducts(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.store.GetCategories(ctx)
	if err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

// GetProduct retrieves one product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// ListProducts returns products, narrowed by a case-insensitive substring
// search over name and description when a query is given.
func (s *CatalogService) ListProducts(ctx context.Context, search string) ([]models.Product, error) {
	if search != "" {
		return s.store.SearchProducts(ctx, search)
	}
	return s.store.GetProducts(ctx, nil)
}

// CategoryProducts returns a category and its products.
func (s *CatalogService) CategoryProducts(ctx context.Context, id int64) (*models.Category, []models.Product, error) {
	category, err := s.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.store.GetProducts(ctx, &id)
	if err != nil {
		return nil, nil, err
	}
	return category, products, nil
}

// SaveProduct validates and persists a product; ID zero creates, non-zero
// updates.
func (s *CatalogService) SaveProduct(ctx context.Context, product *models.Product) error {
	if product.Name == "" {
		return invalidField("name", "name is required")
	}
	if product.Price.IsNegative() {
		return invalidField("price", "price cannot be negative")
	}
	if product.Stock < 0 {
		return invalidField("stock", "stock cannot be negative")
	}

	if product.ID == 0 {
		if err := s.store.CreateProduct(ctx, product); err != nil {
			return err
		}
		s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
		return nil
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return err
	}
	s.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	return nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.GetCategories(ctx)
}

// GetCategory retrieves one category.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.store.GetCategoryByID(ctx, id)
}

// SaveCategory validates and persists a category; ID zero creates,
// non-zero updates.
func (s *CatalogService) SaveCategory(ctx context.Context, category *models.Category) error {
	if category.Name == "" {
		return invalidField("name", "name is required")
	}

	if category.ID == 0 {
		if err := s.store.CreateCategory(ctx, category); err != nil {
			return err
		}
		s.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
		return nil
	}
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return err
	}
	s.logger.Info("Category updated", zap.Int64("category_id", category.ID))
	return nil
}

// DeleteCategory removes a category; its products cascade away.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}
