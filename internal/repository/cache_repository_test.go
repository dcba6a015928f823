package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	var dest map[string]string

	err := repo.Get(context.Background(), "timetable:v1:abc", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(context.Background(), "timetable:v1:abc", map[string]string{"a": "b"}, time.Minute))
	assert.Error(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close())
}
