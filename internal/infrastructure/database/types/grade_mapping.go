package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/eslsoft/gradenet/internal/entity"
)

// GradeMapping stores a grading scale in a JSON column.
type GradeMapping []entity.GradePoint

// Scan implements sql.Scanner
func (m *GradeMapping) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return m.decode(data)
	case string:
		return m.decode([]byte(data))
	default:
		return fmt.Errorf("GradeMapping: unsupported src type %T", src)
	}
}

func (m *GradeMapping) decode(data []byte) error {
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer
func (m GradeMapping) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
