package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog/internal/logs"
	"catalog/internal/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrComponentNotFound = errors.New("component not found")
	ErrNameRequired      = errors.New("name is required")
)

type ProductStore struct{ db *gorm.DB }

func NewProductStore(db *gorm.DB) *ProductStore { return &ProductStore{db: db} }

// Create создаёт продукт с новым productID и пустыми компонентами.
func (s *ProductStore) Create(ctx context.Context, name string) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	p := models.Product{
		ProductID: uuid.NewString(),
		Name:      name,
	}
	p.SetComponents(nil)
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	p.Devices = []models.Device{}
	logs.Logger.WithField("productID", p.ProductID).Debug("product created")
	return &p, nil
}

// Get возвращает продукт вместе с устройствами (в порядке создания).
func (s *ProductStore) Get(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Preload("Devices", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Where("product_id = ?", productID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Devices == nil {
		p.Devices = []models.Device{}
	}
	p.SetComponents(p.Components.Data())
	return &p, nil
}

// SetComponents заменяет определение целиком (без слияния).
func (s *ProductStore) SetComponents(ctx context.Context, productID string, c models.Components) error {
	_, err := s.mutate(ctx, productID, func(models.Components) (models.Components, error) {
		return c, nil
	})
	return err
}

// UpdateComponents сливает updates с текущими компонентами и возвращает итог.
func (s *ProductStore) UpdateComponents(ctx context.Context, productID string, updates models.Components) (models.Components, error) {
	return s.mutate(ctx, productID, func(cur models.Components) (models.Components, error) {
		return cur.Merge(updates), nil
	})
}

// ClearComponents очищает определение; продукт и устройства остаются.
func (s *ProductStore) ClearComponents(ctx context.Context, productID string) error {
	_, err := s.mutate(ctx, productID, func(models.Components) (models.Components, error) {
		return models.Components{}, nil
	})
	return err
}

func (s *ProductStore) DeleteComponent(ctx context.Context, productID, name string) error {
	_, err := s.mutate(ctx, productID, func(cur models.Components) (models.Components, error) {
		if _, ok := cur[name]; !ok {
			return nil, ErrComponentNotFound
		}
		delete(cur, name)
		return cur, nil
	})
	return err
}

// mutate — read-modify-write компонентов в одной транзакции;
// строка продукта блокируется там, где диалект это умеет.
func (s *ProductStore) mutate(ctx context.Context, productID string, fn func(models.Components) (models.Components, error)) (models.Components, error) {
	var out models.Components
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(lockForUpdate(tx), productID)
		if err != nil {
			return err
		}
		next, err := fn(p.ComponentMap())
		if err != nil {
			return err
		}
		out = next.Normalize()
		return tx.Model(p).Update("components", datatypes.NewJSONType(out)).Error
	})
	if err != nil {
		return nil, err
	}
	logs.Logger.WithFields(logrus.Fields{
		"productID":  productID,
		"components": len(out),
	}).Debug("components saved")
	return out, nil
}

func findProduct(tx *gorm.DB, productID string) (*models.Product, error) {
	var p models.Product
	err := tx.Where("product_id = ?", productID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	// sqlite сериализует запись сам и не знает FOR UPDATE
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
