package dbmodels

import (
	"time"

	"github.com/screenrec/screenrec-server/pkg/config"
)

// Recording is one metadata row per uploaded blob. Rows are created exactly
// once by the intake flow and never updated.
type Recording struct {
	ID        uint64    `gorm:"column:id;type:bigint;primarykey;autoIncrement" json:"-"`
	RecordID  string    `gorm:"column:record_id;type:varchar(36);not null;uniqueIndex:idx_record_id" json:"id"`
	FileName  string    `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	FilePath  string    `gorm:"column:filepath;type:varchar(255);not null" json:"filepath"`
	Size      int64     `gorm:"column:size;type:bigint;not null;default:0" json:"size"`
	MimeType  string    `gorm:"column:mime_type;type:varchar(128);not null;default:''" json:"mime_type"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime;not null;index:idx_created_at" json:"created_at"`
}

func (t *Recording) TableName() string {
	return config.FormatDBTable("recordings")
}
