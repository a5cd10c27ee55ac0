package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/models"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	d, err := Open("mongodb", "mongodb://localhost", "silent")
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestOpen_SQLiteMemory(t *testing.T) {
	d, err := Open("sqlite", ":memory:", "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(d) })

	require.NoError(t, Migrate(d))
	assert.True(t, d.Migrator().HasTable(&models.Product{}))
	assert.True(t, d.Migrator().HasTable(&models.Device{}))
	assert.True(t, d.Migrator().HasIndex(&models.Device{}, "ProductID"))
	require.NoError(t, Ping(context.Background(), d))
}

func TestConnect_MigratesFileDatabase(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "catalog.db")

	d, err := Connect(context.Background(), "sqlite", dsn, "silent", 0)
	require.NoError(t, err)

	p := models.Product{ProductID: "p-1", Name: "persisted"}
	p.SetComponents(models.Components{"a": {Type: "temperature"}})
	require.NoError(t, d.Create(&p).Error)
	require.NoError(t, Close(d))

	// повторное открытие видит данные
	d, err = Connect(context.Background(), "sqlite", dsn, "silent", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(d) })

	var got models.Product
	require.NoError(t, d.Where("product_id = ?", "p-1").First(&got).Error)
	assert.Equal(t, "persisted", got.Name)
	assert.Equal(t, "temperature", got.ComponentMap()["a"].Type)
}

func TestConnect_UnsupportedDriverIsPermanent(t *testing.T) {
	_, err := Connect(context.Background(), "oracle", "x", "silent", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
	assert.Contains(t, err.Error(), "after 1 attempt(s)")
}

func TestConnect_UniqueIndexes(t *testing.T) {
	d, err := Connect(context.Background(), "sqlite", ":memory:", "silent", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(d) })

	require.NoError(t, d.Create(&models.Device{DeviceID: "d-1", ProductID: "p-1"}).Error)
	assert.Error(t, d.Create(&models.Device{DeviceID: "d-1", ProductID: "p-2"}).Error)

	require.NoError(t, d.Create(&models.Product{ProductID: "p-1", Name: "a"}).Error)
	assert.Error(t, d.Create(&models.Product{ProductID: "p-1", Name: "b"}).Error)
}

func TestPing_Nil(t *testing.T) {
	assert.Error(t, Ping(context.Background(), nil))
	assert.NoError(t, Close(nil))
}
