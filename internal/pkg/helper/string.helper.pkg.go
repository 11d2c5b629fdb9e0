package helper

import (
	"fmt"
	"strconv"
	"strings"
)

// StringToFloat64 parses a Brazilian-formatted money string, with or without
// the "R$" prefix ("R$ 1.234,56" -> 1234.56).
func StringToFloat64(payload string) (*float64, error) {
	payload = strings.TrimPrefix(payload, "R$")
	payload = strings.TrimSpace(payload)

	// dots group thousands, comma marks decimals
	payload = strings.ReplaceAll(payload, ".", "")
	payload = strings.ReplaceAll(payload, ",", ".")

	result, err := strconv.ParseFloat(payload, 64)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func GetMapStringValue(header map[string]interface{}, key string) *string {
	str := ""
	value, exists := header[key]
	if !exists || value == nil {
		return &str
	}
	str = fmt.Sprintf("%v", value)
	return &str
}
