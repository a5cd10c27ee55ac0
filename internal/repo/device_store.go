package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog/internal/logs"
	"catalog/internal/models"
)

var ErrDeviceNotFound = errors.New("device not found")

type DeviceStore struct{ db *gorm.DB }

func NewDeviceStore(db *gorm.DB) *DeviceStore { return &DeviceStore{db: db} }

// ControlCommand — команда start/stop для одного устройства.
type ControlCommand struct {
	DeviceID string `json:"deviceID"`
	Action   string `json:"action"`
}

type ControlResult struct {
	Updated  []ControlCommand
	NotFound []string
}

// CreateBatch создаёт count устройств продукта по одному (не атомарно):
// при ошибке уже созданные устройства остаются, их ID возвращаются вместе с ошибкой.
func (s *DeviceStore) CreateBatch(ctx context.Context, productID string, count int) ([]string, error) {
	tx := s.db.WithContext(ctx)
	if _, err := findProduct(tx, productID); err != nil {
		return nil, err
	}

	// count приходит от клиента: ёмкость заранее не резервируем
	added := []string{}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		d := models.Device{
			DeviceID:  uuid.NewString(),
			ProductID: productID,
		}
		if err := tx.Create(&d).Error; err != nil {
			return added, err
		}
		added = append(added, d.DeviceID)
	}
	logs.Logger.WithFields(logrus.Fields{
		"productID": productID,
		"count":     len(added),
	}).Debug("devices created")
	return added, nil
}

// Control применяет команды независимо друг от друга. Ненайденные устройства
// не ломают запрос — попадают в NotFound; ошибка БД прерывает обработку.
func (s *DeviceStore) Control(ctx context.Context, productID string, cmds []ControlCommand) (*ControlResult, error) {
	res := &ControlResult{
		Updated:  []ControlCommand{},
		NotFound: []string{},
	}
	tx := s.db.WithContext(ctx)
	for _, c := range cmds {
		var d models.Device
		err := tx.Where("device_id = ? AND product_id = ?", c.DeviceID, productID).First(&d).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res.NotFound = append(res.NotFound, c.DeviceID)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := tx.Model(&d).Update("active", models.ActiveFor(c.Action)).Error; err != nil {
			return nil, err
		}
		res.Updated = append(res.Updated, c)
	}
	logs.Logger.WithFields(logrus.Fields{
		"productID": productID,
		"updated":   len(res.Updated),
		"notFound":  len(res.NotFound),
	}).Debug("device control applied")
	return res, nil
}

// Running — активные устройства продукта в порядке создания.
func (s *DeviceStore) Running(ctx context.Context, productID string) ([]models.Device, error) {
	devs := []models.Device{}
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Order("id asc").
		Find(&devs).Error
	if err != nil {
		return nil, err
	}
	return devs, nil
}

func (s *DeviceStore) Get(ctx context.Context, deviceID string) (*models.Device, error) {
	var d models.Device
	err := s.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
