package scoring

import (
	"encoding/json"
	"fmt"
)

// Rating is one indicator score. The zero value means "not rated"; a present
// rating always carries a value between 1 and 5.
type Rating struct {
	Value int
	Valid bool
}

func Rated(value int) Rating {
	return Rating{Value: value, Valid: true}
}

func (r Rating) Validate() error {
	if !r.Valid {
		return nil
	}
	if r.Value < MinIndicatorScore || r.Value > MaxIndicatorScore {
		return fmt.Errorf("indicator score %d out of range", r.Value)
	}
	return nil
}

// MarshalJSON encodes an absent rating as null so stored score sheets keep
// "not rated" distinguishable from any real value.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rating{}
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*r = Rated(value)
	return nil
}
