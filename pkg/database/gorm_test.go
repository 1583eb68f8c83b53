package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := Open("sqlite", ":memory:", false)
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpenRejects(t *testing.T) {
	_, err := Open("postgres", "", false)
	assert.Error(t, err)

	_, err = Open("mysql", "dsn", false)
	assert.Error(t, err)
}
