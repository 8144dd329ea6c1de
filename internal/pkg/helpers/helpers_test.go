package helpers

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, ParseDuration("1h30m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("soon", time.Hour))
}

func TestNullStrings(t *testing.T) {
	value := "active"

	assert.Equal(t, sql.NullString{String: "active", Valid: true}, GetNullString(&value))
	assert.Equal(t, sql.NullString{}, GetNullString(nil))

	assert.Equal(t, &value, NullStringPtr(sql.NullString{String: "active", Valid: true}))
	assert.Nil(t, NullStringPtr(sql.NullString{}))
}
