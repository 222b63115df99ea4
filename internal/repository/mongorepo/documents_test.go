package mongorepo

import (
	"testing"

	"social-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseID(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("5f1d7a3b9c8e4d2a1b0c3e4f")
	require.NoError(t, err)

	got, err := parseID("user", "5f1d7a3b9c8e4d2a1b0c3e4f")
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	for _, bad := range []string{"", "42", "zz1d7a3b9c8e4d2a1b0c3e4f", "5F1D7A3B9C8E4D2A1B0C3E4F"} {
		_, err := parseID("user", bad)
		assert.ErrorIs(t, err, model.ErrNotFound, bad)
	}

	assert.Equal(t, []primitive.ObjectID{oid}, objectIDs([]string{"5F1D7A3B9C8E4D2A1B0C3E4F", "5f1d7a3b9c8e4d2a1b0c3e4f", "x"}))
}
