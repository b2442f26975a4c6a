package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// OptionMap stores MCQ options ("A" -> "text") as a JSON object in a TEXT column.
type OptionMap map[string]string

func (m OptionMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *OptionMap) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("OptionMap Scan: %w", err)
	}
	if data == nil {
		*m = OptionMap{}
		return nil
	}
	return json.Unmarshal(data, (*map[string]string)(m))
}

// JSONObject holds free-form JSON such as learn content resources. NULL scans to nil.
type JSONObject map[string]interface{}

func (o JSONObject) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	data, err := json.Marshal(map[string]interface{}(o))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (o *JSONObject) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("JSONObject Scan: %w", err)
	}
	if data == nil {
		*o = nil
		return nil
	}
	return json.Unmarshal(data, (*map[string]interface{})(o))
}

// jsonBytes returns nil for NULL, empty and literal "null" values.
func jsonBytes(value interface{}) ([]byte, error) {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
