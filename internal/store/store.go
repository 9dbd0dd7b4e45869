package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/lacteosdev/catalogo-web/internal/models"
)

// Error kinds every operation maps driver failures onto. Handlers branch
// on these with errors.Is and never inspect driver errors themselves.
var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate key")
	ErrReference = errors.New("store: referenced row does not exist")
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrReference
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint"):
		return ErrDuplicate
	case strings.Contains(msg, "foreign key"):
		return ErrReference
	}
	return err
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return classify(s.DB.WithContext(ctx).Create(user).Error)
}

// ProductRow is one line of the catalog listing: a product joined with
// its category and unit names.
type ProductRow struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitName    string  `json:"unit_name"`
	UnitAbbrev  string  `json:"unit_abbrev"`
	Category    string  `json:"category"`
	CreatedBy   string  `json:"created_by"`
}

func (s *Store) ListProducts(ctx context.Context) ([]ProductRow, error) {
	var rows []ProductRow
	err := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.id, products.name, products.description, products.quantity, "+
			"units.name AS unit_name, units.abbrev AS unit_abbrev, "+
			"categories.name AS category, products.created_by").
		Joins("JOIN units ON units.id = products.unit_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.active = ?", true).
		Order("products.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := s.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, classify(err)
	}
	return &prod, nil
}

func (s *Store) CreateProduct(ctx context.Context, prod *models.Product) error {
	if err := referenceCheck(s.DB.WithContext(ctx), prod); err != nil {
		return err
	}
	return classify(s.DB.WithContext(ctx).Create(prod).Error)
}

func (s *Store) UpdateProduct(ctx context.Context, prod *models.Product) error {
	if err := referenceCheck(s.DB.WithContext(ctx), prod); err != nil {
		return err
	}
	result := s.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", prod.ID).
		Updates(map[string]any{
			"name":        prod.Name,
			"description": prod.Description,
			"quantity":    prod.Quantity,
			"unit_id":     prod.UnitID,
			"category_id": prod.CategoryID,
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// referenceCheck enforces the category/unit foreign keys up front. SQLite
// in tests does not always surface FK violations through gorm, so the
// lookup keeps the error kind uniform across drivers.
func referenceCheck(db *gorm.DB, prod *models.Product) error {
	var n int64
	if err := db.Model(&models.Unit{}).Where("id = ?", prod.UnitID).Count(&n).Error; err != nil {
		return classify(err)
	}
	if n == 0 {
		return ErrReference
	}
	if err := db.Model(&models.Category{}).Where("id = ?", prod.CategoryID).Count(&n).Error; err != nil {
		return classify(err)
	}
	if n == 0 {
		return ErrReference
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, classify(err)
	}
	return cats, nil
}

func (s *Store) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	if err := s.DB.WithContext(ctx).Order("name ASC").Find(&units).Error; err != nil {
		return nil, classify(err)
	}
	return units, nil
}

func (s *Store) CreateNotification(ctx context.Context, n *models.EmailNotification) error {
	return classify(s.DB.WithContext(ctx).Create(n).Error)
}

func (s *Store) MarkNotificationSent(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Model(&models.EmailNotification{}).
		Where("id = ?", id).
		Update("sent", true)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
