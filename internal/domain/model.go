package domain

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// pkModulus bounds the derived numeric key to twelve digits.
const pkModulus = 1_000_000_000_000

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt;
// deletion and archiving are plain flags filtered by specifications.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SK        uuid.UUID `gorm:"column:sk;type:varchar(36);uniqueIndex;<-:create" json:"sk"`
	PK        int64     `gorm:"column:pk;uniqueIndex;<-:create" json:"pk"`
	Deleted   bool      `gorm:"not null;default:false;index" json:"deleted"`
	Archived  bool      `gorm:"not null;default:false;index" json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Base returns m itself. It lets generic code reach the shared fields of any
// model embedding BaseModel.
func (m *BaseModel) Base() *BaseModel { return m }

// BeforeCreate assigns the secondary keys when they are unset.
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.SK == uuid.Nil {
		m.SK = uuid.New()
	}
	if m.PK == 0 {
		m.PK = DerivePK(m.SK, time.Now())
	}
	return nil
}

// RegenerateKeys replaces sk and pk with fresh values.
func (m *BaseModel) RegenerateKeys() {
	m.SK = uuid.New()
	m.PK = DerivePK(m.SK, time.Now())
}

// DerivePK computes the numeric key of sk at now: the absolute difference
// between the high half of sk and the sum of its low half and the epoch
// milliseconds, reduced to twelve digits.
func DerivePK(sk uuid.UUID, now time.Time) int64 {
	msb := int64(binary.BigEndian.Uint64(sk[:8]))
	lsb := int64(binary.BigEndian.Uint64(sk[8:]))
	v := (msb - (lsb + now.UnixMilli())) % pkModulus
	if v < 0 {
		v = -v
	}
	return v
}

// Entity is implemented by pointers to models embedding BaseModel.
type Entity interface {
	Base() *BaseModel
}

// EntityPtr constrains P to be *T for a model T embedding BaseModel, so
// generic code can both allocate a T and reach its BaseModel.
type EntityPtr[T any] interface {
	*T
	Entity
}
