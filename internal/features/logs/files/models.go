package logs_files

import (
	"time"

	"github.com/google/uuid"
)

// LogFile is one registered log file served by the viewer. Name is the
// stable identifier used by the API; Path is its location under the
// configured log directory.
type LogFile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"    json:"id"`
	Name      string    `gorm:"uniqueIndex;not null"    json:"name"`
	Path      string    `gorm:"not null"                json:"-"`
	CreatedAt time.Time `gorm:"not null"                json:"createdAt"`
}

func (LogFile) TableName() string {
	return "log_files"
}
