package service

import (
	"context"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
)

type HomeData struct {
	LandSizeUnits         []models.LookupEntry
	Harvesters            []models.LookupEntry
	CropTypes             []models.LookupEntry
	TransportArrangements []models.LookupEntry
}

type HomeService struct {
	repos *repository.Repositories
}

func NewHomeService(repos *repository.Repositories) *HomeService {
	return &HomeService{repos: repos}
}

// GetHomeData returns every active reference entry the home screen shows.
func (s *HomeService) GetHomeData(ctx context.Context) (*HomeData, error) {
	data := &HomeData{}
	targets := []struct {
		table repository.LookupTable
		dst   *[]models.LookupEntry
	}{
		{repository.LandSizeUnits, &data.LandSizeUnits},
		{repository.Harvesters, &data.Harvesters},
		{repository.CropTypes, &data.CropTypes},
		{repository.TransportArrangements, &data.TransportArrangements},
	}
	for _, t := range targets {
		entries, err := s.repos.Lookup(t.table).ListActive(ctx)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		*t.dst = entries
	}
	return data, nil
}
