package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/academia/internal/app/models"
	appRepos "github.com/yigit/academia/internal/app/repositories"
	"github.com/yigit/academia/internal/pkg/apperrors"
)

type defaultInstitute struct {
	institute   appModels.Institute
	departments []appModels.Department
}

var defaults = []defaultInstitute{
	{
		institute: appModels.Institute{Name: "Institute of Engineering", Code: "ENG"},
		departments: []appModels.Department{
			{Name: "Computer Engineering", Code: "CENG"},
			{Name: "Electrical Engineering", Code: "EEE"},
			{Name: "Mechanical Engineering", Code: "ME"},
		},
	},
	{
		institute: appModels.Institute{Name: "Institute of Science", Code: "SCI"},
		departments: []appModels.Department{
			{Name: "Mathematics", Code: "MATH"},
			{Name: "Physics", Code: "PHYS"},
		},
	},
}

// CreateDefaultData creates default institutes and departments if they don't exist.
// Existing rows are left alone, so running it on every start is safe.
func CreateDefaultData(ctx context.Context, writer appRepos.DirectoryWriter, directory appRepos.DepartmentDirectory, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Institutes/Departments)...")

	existing, err := directory.GetAll(ctx)
	if err != nil {
		return err
	}
	instituteIDs := map[string]int64{}
	for _, d := range existing {
		if d.Institute != nil {
			instituteIDs[d.Institute.Code] = d.Institute.ID
		}
	}

	var finalErr error // collect errors without stopping the process
	for _, def := range defaults {
		institute := def.institute
		instituteID, known := instituteIDs[institute.Code]
		if !known {
			err := writer.CreateInstitute(ctx, &institute)
			switch {
			case err == nil:
				instituteID = institute.ID
			case errors.Is(err, apperrors.ErrInstituteAlreadyExists):
				// Institute without departments; its ID is unknown, skip it.
				lgr.Warn().Str("code", institute.Code).Msg("Institute exists without departments, skipping")
				continue
			default:
				lgr.Error().Err(err).Str("code", institute.Code).Msg("Error creating institute")
				finalErr = errors.Join(finalErr, err)
				continue
			}
		}

		for _, dept := range def.departments {
			dept.InstituteID = instituteID
			err := writer.CreateDepartment(ctx, &dept)
			if err != nil && !errors.Is(err, apperrors.ErrDepartmentAlreadyExists) {
				lgr.Error().Err(err).Str("code", dept.Code).Msg("Error creating department")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation complete.")
	}
	return finalErr
}
