package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LookupTable names one of the multilingual reference tables. All of them share lookupRow's layout.
type LookupTable string

const (
	CropTypes             LookupTable = "crop_types"
	Harvesters            LookupTable = "harvesters"
	TransportArrangements LookupTable = "transport_arrangements"
	LandSizeUnits         LookupTable = "land_size_units"
)

var LookupTables = []LookupTable{CropTypes, Harvesters, TransportArrangements, LandSizeUnits}

type lookupRow struct {
	ID        uint   `gorm:"primaryKey"`
	NameEn    string `gorm:"column:name_en;size:100"`
	NamePa    string `gorm:"column:name_pa;size:100"`
	NameBgcIn string `gorm:"column:name_bgc_in;size:100"`
	NameHi    string `gorm:"column:name_hi;size:100"`
	NameRajIn string `gorm:"column:name_raj_in;size:100"`
	Status    string `gorm:"type:varchar(1);not null;default:'1'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LookupRepository struct {
	db     *gorm.DB
	table  LookupTable
	logger *logrus.Logger
}

func NewLookupRepository(db *gorm.DB, table LookupTable, logger *logrus.Logger) *LookupRepository {
	return &LookupRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

func (r *LookupRepository) Table() LookupTable {
	return r.table
}

func (r *LookupRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(string(r.table))
}

// Create inserts an active entry.
func (r *LookupRepository) Create(ctx context.Context, names models.LocalizedNames) (*models.LookupEntry, error) {
	row := &lookupRow{
		NameEn:    names.En,
		NamePa:    names.Pa,
		NameBgcIn: names.BgcIn,
		NameHi:    names.Hi,
		NameRajIn: names.RajIn,
		Status:    statusToDB(models.StatusActive),
	}
	if err := r.query(ctx).Create(row).Error; err != nil {
		r.logger.WithError(err).WithField("table", r.table).Error("Failed to create lookup entry")
		return nil, fmt.Errorf("failed to create %s entry: %w", r.table, err)
	}
	return rowToLookupEntry(row), nil
}

func (r *LookupRepository) FindByID(ctx context.Context, id uint) (*models.LookupEntry, error) {
	var row lookupRow
	if err := r.query(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return rowToLookupEntry(&row), nil
}

// UpdateNames replaces every localized name of an entry.
func (r *LookupRepository) UpdateNames(ctx context.Context, id uint, names models.LocalizedNames) error {
	return r.update(ctx, id, map[string]interface{}{
		"name_en":     names.En,
		"name_pa":     names.Pa,
		"name_bgc_in": names.BgcIn,
		"name_hi":     names.Hi,
		"name_raj_in": names.RajIn,
	})
}

func (r *LookupRepository) SetStatus(ctx context.Context, id uint, status models.Status) error {
	return r.update(ctx, id, map[string]interface{}{"status": statusToDB(status)})
}

func (r *LookupRepository) update(ctx context.Context, id uint, values map[string]interface{}) error {
	values["updated_at"] = r.db.NowFunc()
	result := r.query(ctx).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s entry: %w", r.table, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActive returns every active entry ordered by id.
func (r *LookupRepository) ListActive(ctx context.Context) ([]models.LookupEntry, error) {
	var rows []lookupRow
	if err := r.query(ctx).Where("status = ?", flagOn).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	entries := make([]models.LookupEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, *rowToLookupEntry(&rows[i]))
	}
	return entries, nil
}

// ListActiveNames projects the active entries onto one language.
func (r *LookupRepository) ListActiveNames(ctx context.Context, lang models.Language) ([]models.LocalizedEntry, error) {
	column, ok := nameColumns[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	entries := []models.LocalizedEntry{}
	err := r.query(ctx).
		Select("id, " + column + " AS name").
		Where("status = ?", flagOn).
		Order("id").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s names: %w", r.table, err)
	}
	return entries, nil
}

// nameColumns is the only source of column names interpolated into queries.
var nameColumns = map[models.Language]string{
	models.LanguageEnglish:    "name_en",
	models.LanguagePunjabi:    "name_pa",
	models.LanguageBagri:      "name_bgc_in",
	models.LanguageHindi:      "name_hi",
	models.LanguageRajasthani: "name_raj_in",
}

func rowToLookupEntry(row *lookupRow) *models.LookupEntry {
	return &models.LookupEntry{
		ID: row.ID,
		Names: models.LocalizedNames{
			En:    row.NameEn,
			Pa:    row.NamePa,
			BgcIn: row.NameBgcIn,
			Hi:    row.NameHi,
			RajIn: row.NameRajIn,
		},
		Status:    statusFromDB(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
