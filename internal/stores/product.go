package stores

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/rules"
)

// ProductStore persists products and derives their category tags at creation.
type ProductStore struct {
	db       *gorm.DB
	resolver rules.TagResolver
}

// NewProductStore constructs ProductStore.
func NewProductStore(db *gorm.DB, resolver rules.TagResolver) *ProductStore {
	return &ProductStore{db: db, resolver: resolver}
}

// NewProduct carries the metadata needed to create a product record.
type NewProduct struct {
	Brand       string
	Name        string
	Description string
	SourceURL   string
	ImageURL    string
	Ingredients []string
}

// GetByID loads a single product.
func (s *ProductStore) GetByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindOrCreate returns the product identified by its source URL, creating it
// on first reference. Tags are computed once here from the ingredient list
// and never recomputed. The second return value reports whether a record was
// created.
func (s *ProductStore) FindOrCreate(input NewProduct) (*models.Product, bool, error) {
	var existing models.Product
	err := s.db.Where("source_url = ?", input.SourceURL).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	product := models.Product{
		Brand:       input.Brand,
		Name:        input.Name,
		Description: input.Description,
		SourceURL:   input.SourceURL,
		ImageURL:    input.ImageURL,
		Ingredients: input.Ingredients,
		Tags:        rules.DeriveTags(input.Ingredients, s.resolver),
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, false, err
	}
	return &product, true, nil
}

// List returns paginated products, newest first, with an optional name
// filter.
func (s *ProductStore) List(search string, limit, offset int) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})
	if search != "" {
		q := "%" + search + "%"
		query = query.Where("name LIKE ? OR brand LIKE ?", q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.Limit(limit).Offset(offset).Order("created_at desc").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
