package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/sirupsen/logrus"
)

// LookupKind describes one multilingual reference table and how it is named in messages.
type LookupKind struct {
	Table    repository.LookupTable
	Singular string
	Plural   string
}

var (
	CropTypeKind             = LookupKind{Table: repository.CropTypes, Singular: "Crop type", Plural: "Crop types"}
	HarvesterKind            = LookupKind{Table: repository.Harvesters, Singular: "Harvester", Plural: "Harvesters"}
	TransportArrangementKind = LookupKind{Table: repository.TransportArrangements, Singular: "Transport arrangement", Plural: "Transport arrangements"}
	LandSizeUnitKind         = LookupKind{Table: repository.LandSizeUnits, Singular: "Land size unit", Plural: "Land size units"}
)

type LookupService struct {
	repos  *repository.Repositories
	kind   LookupKind
	logger *logrus.Logger
}

func NewLookupService(repos *repository.Repositories, kind LookupKind, logger *logrus.Logger) *LookupService {
	return &LookupService{
		repos:  repos,
		kind:   kind,
		logger: logger,
	}
}

func (s *LookupService) Kind() LookupKind {
	return s.kind
}

func (s *LookupService) store() *repository.LookupRepository {
	return s.repos.Lookup(s.kind.Table)
}

func (s *LookupService) Create(ctx context.Context, names models.LocalizedNames) (*models.LookupEntry, error) {
	names = trimNames(names)
	if !names.Complete() {
		return nil, apperr.Validation("All language fields are required")
	}
	entry, err := s.store().Create(ctx, names)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.logger.WithFields(logrus.Fields{"table": s.kind.Table, "id": entry.ID}).Info("Created lookup entry")
	return entry, nil
}

func (s *LookupService) Update(ctx context.Context, id uint, names models.LocalizedNames) error {
	names = trimNames(names)
	if id == 0 || !names.Complete() {
		return apperr.Validation("id and all language fields are required")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.store().UpdateNames(ctx, id, names); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Delete marks an active entry inactive.
func (s *LookupService) Delete(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, models.StatusInactive, "is already deleted")
}

// Restore reactivates a deleted entry.
func (s *LookupService) Restore(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, models.StatusActive, "is already active")
}

func (s *LookupService) setStatus(ctx context.Context, id uint, status models.Status, unchanged string) error {
	if id == 0 {
		return apperr.Validation("id is required")
	}
	entry, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if entry.Status == status {
		return apperr.Validation(s.kind.Singular + " " + unchanged)
	}
	if err := s.store().SetStatus(ctx, id, status); err != nil {
		return s.mapError(err)
	}
	return nil
}

// ListActive returns every active entry with all of its names.
func (s *LookupService) ListActive(ctx context.Context) ([]models.LookupEntry, error) {
	entries, err := s.store().ListActive(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

// ListByLanguage returns the active entries named in the given language.
func (s *LookupService) ListByLanguage(ctx context.Context, code string) ([]models.LocalizedEntry, error) {
	lang, err := ParseLanguageCode(code)
	if err != nil {
		return nil, err
	}
	entries, err := s.store().ListActiveNames(ctx, lang)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

func (s *LookupService) find(ctx context.Context, id uint) (*models.LookupEntry, error) {
	entry, err := s.store().FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}
	return entry, nil
}

func (s *LookupService) mapError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(s.kind.Singular + " not found")
	}
	return apperr.Internal(err)
}

// ParseLanguageCode validates a language code supplied by a client.
func ParseLanguageCode(code string) (models.Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", apperr.Validation("language_code is required")
	}
	lang, ok := models.ParseLanguage(code)
	if !ok {
		return "", apperr.Validation("Invalid language_code")
	}
	return lang, nil
}

func trimNames(n models.LocalizedNames) models.LocalizedNames {
	return models.LocalizedNames{
		En:    strings.TrimSpace(n.En),
		Pa:    strings.TrimSpace(n.Pa),
		BgcIn: strings.TrimSpace(n.BgcIn),
		Hi:    strings.TrimSpace(n.Hi),
		RajIn: strings.TrimSpace(n.RajIn),
	}
}
