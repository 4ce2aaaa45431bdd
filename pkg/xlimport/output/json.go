package output

import (
	"encoding/json"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

// ToJSON serializes a result to JSON.
func ToJSON(res *models.Result, pretty bool) ([]byte, error) {
	return marshal(res, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
