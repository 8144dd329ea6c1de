package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appRepos "github.com/yigit/academia/internal/app/repositories"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	repos := appRepos.NewMemoryRepositories()
	ctx := context.Background()

	require.NoError(t, CreateDefaultData(ctx, repos.Directory, repos.Departments, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos.Directory, repos.Departments, zerolog.Nop()))

	departments, err := repos.Departments.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 5)

	byCode := map[string]string{}
	for _, d := range departments {
		require.NotNil(t, d.Institute)
		byCode[d.Code] = d.Institute.Code
	}
	assert.Equal(t, map[string]string{
		"CENG": "ENG",
		"EEE":  "ENG",
		"ME":   "ENG",
		"MATH": "SCI",
		"PHYS": "SCI",
	}, byCode)
}
