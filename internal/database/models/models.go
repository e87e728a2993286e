package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

func GetModels() []interface{} {
	return []interface{}{
		&ScanRequest{},
		&ScanResult{},
		&Vulnerability{},

		// We'll add more models here if neccessary
	}
}

// Table names, useful for referencing with . notation
// (e.g. models.SCAN_REQUESTS, models.VULNERABILITIES, etc.)
const (
	SCAN_REQUESTS   = "scan_requests"
	SCAN_RESULTS    = "scan_results"
	VULNERABILITIES = "vulnerabilities"
)

// StringList stores a []string as a JSON text column in sqlite
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	}
	return fmt.Errorf("cannot scan %T into StringList", value)
}
