package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
)

// WriteParquet writes records as a Snappy-compressed parquet file. A column
// whose values all share one kind gets that type; mixed columns are text.
// A failed result is an error since parquet has no error shape.
func WriteParquet(w io.Writer, res *models.Result) error {
	if !res.Success {
		return fmt.Errorf("no records to write: %s", res.Error)
	}

	columns := Columns(res.Records)
	kinds := columnKinds(res.Records, columns)
	schema := parquetSchema(columns, kinds)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	n := len(columns)
	for _, rec := range res.Records {
		for i, col := range columns {
			v, _ := rec.Get(col)
			appendValue(b.Field(i), kinds[i], v)
		}
		b.Field(n).(*array.BooleanBuilder).Append(rec.Valid)
		warning := b.Field(n + 1).(*array.StringBuilder)
		if rec.Warning == "" {
			warning.AppendNull()
		} else {
			warning.Append(rec.Warning)
		}
	}
	batch := b.NewRecord()
	defer batch.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	// Hide Close so the writer does not close w.
	writer, err := pqarrow.NewFileWriter(schema, struct{ io.Writer }{w}, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(batch); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet records: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func parquetSchema(columns []string, kinds []models.ValueKind) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(columns)+2)
	for i, col := range columns {
		fields = append(fields, arrow.Field{Name: col, Type: arrowType(kinds[i]), Nullable: true})
	}
	fields = append(fields,
		arrow.Field{Name: "_valid", Type: arrow.FixedWidthTypes.Boolean},
		arrow.Field{Name: "_warning", Type: arrow.BinaryTypes.String, Nullable: true},
	)
	return arrow.NewSchema(fields, nil)
}

func arrowType(kind models.ValueKind) arrow.DataType {
	switch kind {
	case models.KindNumber:
		return arrow.PrimitiveTypes.Float64
	case models.KindBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func columnKinds(records []models.Record, columns []string) []models.ValueKind {
	kinds := make([]models.ValueKind, len(columns))
	for i, col := range columns {
		kind := models.KindNull
		for _, rec := range records {
			v, _ := rec.Get(col)
			if v.IsNull() {
				continue
			}
			if kind == models.KindNull {
				kind = v.Kind
			} else if kind != v.Kind {
				kind = models.KindText
				break
			}
		}
		if kind == models.KindNull {
			kind = models.KindText
		}
		kinds[i] = kind
	}
	return kinds
}

func appendValue(fb array.Builder, kind models.ValueKind, v models.Value) {
	if v.IsNull() {
		fb.AppendNull()
		return
	}
	switch kind {
	case models.KindNumber:
		fb.(*array.Float64Builder).Append(v.Num)
	case models.KindBool:
		fb.(*array.BooleanBuilder).Append(v.Bool)
	default:
		fb.(*array.StringBuilder).Append(v.String())
	}
}
