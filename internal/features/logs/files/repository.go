package logs_files

import (
	"errors"

	"logview/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogFileRepository struct{}

func (r *LogFileRepository) GetAll() ([]*LogFile, error) {
	var files []*LogFile
	if err := storage.GetDb().Order("name ASC").Find(&files).Error; err != nil {
		return nil, err
	}

	return files, nil
}

func (r *LogFileRepository) GetByName(name string) (*LogFile, error) {
	var file LogFile

	err := storage.GetDb().Where("name = ?", name).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// Upsert registers a file by name, updating the path if the name is already
// known. Registration is idempotent across restarts.
func (r *LogFileRepository) Upsert(file *LogFile) error {
	return storage.GetDb().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"path"}),
	}).Create(file).Error
}

func (r *LogFileRepository) Delete(name string) error {
	return storage.GetDb().Where("name = ?", name).Delete(&LogFile{}).Error
}
