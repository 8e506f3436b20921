package mcpserver

import (
	"fmt"
	"math"
	"strconv"
)

// idArg reads a note id from tool arguments. JSON numbers arrive as float64;
// some clients send ids as strings.
func idArg(args map[string]any, key string) (int64, error) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) || v <= 0 {
			return 0, fmt.Errorf("%s must be a positive integer", key)
		}
		return int64(v), nil
	case int:
		if v <= 0 {
			return 0, fmt.Errorf("%s must be a positive integer", key)
		}
		return int64(v), nil
	case int64:
		if v <= 0 {
			return 0, fmt.Errorf("%s must be a positive integer", key)
		}
		return v, nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("%s must be a positive integer", key)
		}
		return id, nil
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
