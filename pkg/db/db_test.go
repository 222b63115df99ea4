package db

import (
	"context"
	"testing"

	"social-system/config"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     3306,
		Username: "social_user",
		Password: "secret",
		Database: "social_system",
		Charset:  "utf8mb4",
	})
	assert.Equal(t, "social_user:secret@tcp(127.0.0.1:3306)/social_system?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestCloseWithoutBackend(t *testing.T) {
	assert.Error(t, AutoMigrate())
	assert.NoError(t, CloseDB(context.Background()))
}
