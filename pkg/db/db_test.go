package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func TestNewTestDetectsDuplicateKeys(t *testing.T) {
	conn, err := NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&widget{}))

	require.NoError(t, conn.Create(&widget{ID: 1, Code: "a"}).Error)
	err = conn.Create(&widget{ID: 2, Code: "a"}).Error
	assert.True(t, IsDuplicateKeyErr(err))
}

func TestIsDuplicateKeyErrMessages(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKeyErr(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`)))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry")))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)

	d, err := Dialect(config.Config{DBType: "sqlite", DBName: "crm"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialect(config.Config{DBType: " Postgres "})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}

func TestDSNs(t *testing.T) {
	cfg := config.Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "crm",
		DBUser:     "app",
		DBPassword: "pw",
		DBSSLMode:  "disable",
	}

	assert.Equal(t, "host=db user=app password=pw dbname=crm port=5432 sslmode=disable TimeZone=UTC", PostgresDSN(cfg))
	assert.Equal(t, "app:pw@tcp(db:5432)/crm?charset=utf8mb4&parseTime=True&loc=UTC", MySQLDSN(cfg))
	assert.Equal(t, "crm.db", SQLiteFile(cfg))
	assert.Equal(t, "/var/lib/crm/data.db", SQLiteFile(config.Config{DBName: "/var/lib/crm/data.db"}))
}
