package output

import (
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

type phpResponse struct {
	Success  bool                       `json:"success"`
	Error    string                     `json:"error,omitempty"`
	Data     []models.Record            `json:"data"`
	Metadata *models.ProcessingMetadata `json:"metadata,omitempty"`
}

// ToPHPArray serializes a result as a {success, data, metadata} envelope.
// Null values become empty strings so every field decodes to a PHP string
// or scalar.
func ToPHPArray(res *models.Result, pretty bool) ([]byte, error) {
	if !res.Success {
		return marshal(phpResponse{
			Error: res.Error,
			Data:  []models.Record{},
		}, pretty)
	}

	data := make([]models.Record, len(res.Records))
	for i, rec := range res.Records {
		values := make([]models.Value, len(rec.Keys))
		for j := range rec.Keys {
			if j < len(rec.Values) && !rec.Values[j].IsNull() {
				values[j] = rec.Values[j]
			} else {
				values[j] = models.Text("")
			}
		}
		rec.Values = values
		data[i] = rec
	}

	meta := res.Metadata
	return marshal(phpResponse{
		Success:  true,
		Data:     data,
		Metadata: &meta,
	}, pretty)
}
