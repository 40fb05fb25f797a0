package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/leapstack-labs/hurley/pkg/core"
)

// timestampLayout always renders a numeric UTC offset, so UTC formats as
// +00:00 rather than Z and round-trips through the engine's string
// comparison operators.
const timestampLayout = "2006-01-02T15:04:05-07:00"

// ConvertBinding maps one native value to the narrowest engine-primitive
// representation. The underlying engines only store NULL, integers,
// floats, text and blobs, so booleans become 0/1 and temporal values
// become ISO-8601 strings. The function is total: any value it does not
// recognize is serialized to its canonical JSON string.
func ConvertBinding(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return v.Format(timestampLayout)
	case core.NaiveDateTime:
		return v.String()
	case core.Date:
		return v.String()
	case core.TimeOfDay:
		return v.String()
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, string, []byte:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

func convertBindings(params []any) []any {
	if len(params) == 0 {
		return nil
	}
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = ConvertBinding(p)
	}
	return out
}
