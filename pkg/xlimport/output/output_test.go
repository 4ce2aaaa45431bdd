package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
)

func sampleResult() *models.Result {
	keys := []string{"main_value", "minor_value", "label"}
	first := models.NewRecord("Data", 2, keys, []models.Value{models.Text("CAT1"), models.Number(1), models.Text("One, first")})
	second := models.NewRecord("Data", 3, keys, []models.Value{models.Text("CAT1"), models.Number(1), models.Null()})
	second.Valid = false
	second.Warning = "Row 3: duplicate composite key found (first seen at row 2)"

	return models.NewSuccess([]models.Record{first, second}, models.ProcessingMetadata{
		RunID:              "run",
		Sheets:             []string{"Data"},
		TotalRowsProcessed: 2,
		ValidRecords:       1,
		InvalidRecords:     1,
		ProcessingTimeMs:   12,
		Warnings:           []string{second.Warning},
	})
}

func failedResult() *models.Result {
	err := xerrors.NewSheetNotFound("book.xlsx", "Ghost", []string{"Sheet1", "Sheet2"})
	return models.NewFailure(err, models.ProcessingMetadata{})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{"php", FormatPHP, false},
		{"PhpArray", FormatPHP, false},
		{"php-array", FormatPHP, false},
		{"parquet", FormatParquet, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleResult(), false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `{"main_value":"CAT1","minor_value":1,"label":"One, first","_valid":true}`) {
		t.Errorf("Unexpected record encoding: %s", s)
	}
	if !strings.Contains(s, `"label":null,"_valid":false,"_warning":"Row 3: duplicate composite key found (first seen at row 2)"`) {
		t.Errorf("Unexpected invalid record encoding: %s", s)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["success"] != true {
		t.Errorf("Expected success true, got %v", decoded["success"])
	}
}

func TestToJSONFailure(t *testing.T) {
	data, err := ToJSON(failedResult(), true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	var decoded struct {
		Success bool              `json:"success"`
		Records []json.RawMessage `json:"records"`
		Details models.ErrorDetails
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Success || len(decoded.Records) != 0 {
		t.Errorf("Expected failure without records, got %s", data)
	}
	if decoded.Details.RequestedSheet != "Ghost" || len(decoded.Details.AvailableSheets) != 2 {
		t.Errorf("Unexpected details: %+v", decoded.Details)
	}
}

func TestToCSV(t *testing.T) {
	data, err := ToCSV(sampleResult())
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}
	want := "main_value,minor_value,label,_valid,_warning\n" +
		"CAT1,1,\"One, first\",true,\n" +
		"CAT1,1,,false,Row 3: duplicate composite key found (first seen at row 2)\n"
	if string(data) != want {
		t.Errorf("ToCSV =\n%s\nwant\n%s", data, want)
	}

	data, err = ToCSV(failedResult())
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "status,error\nfailed,") {
		t.Errorf("Unexpected failure CSV: %s", data)
	}
}

func TestToPHPArray(t *testing.T) {
	data, err := ToPHPArray(sampleResult(), false)
	if err != nil {
		t.Fatalf("ToPHPArray failed: %v", err)
	}
	var decoded struct {
		Success  bool             `json:"success"`
		Data     []map[string]any `json:"data"`
		Metadata map[string]any   `json:"metadata"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if !decoded.Success || len(decoded.Data) != 2 {
		t.Fatalf("Unexpected envelope: %s", data)
	}
	if got := decoded.Data[1]["label"]; got != "" {
		t.Errorf("Expected null to become empty string, got %#v", got)
	}
	if got := decoded.Data[0]["minor_value"]; got != float64(1) {
		t.Errorf("Expected number to stay numeric, got %#v", got)
	}
	if decoded.Metadata["valid_records"] != float64(1) {
		t.Errorf("Unexpected metadata: %v", decoded.Metadata)
	}

	data, err = ToPHPArray(failedResult(), false)
	if err != nil {
		t.Fatalf("ToPHPArray failed: %v", err)
	}
	if !strings.HasPrefix(string(data), `{"success":false,"error":`) || !strings.HasSuffix(string(data), `"data":[]}`) {
		t.Errorf("Unexpected failure envelope: %s", data)
	}
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResult(), FormatParquet, false); err != nil {
		t.Fatalf("WriteParquet failed: %v", err)
	}
	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte("PAR1")) || !bytes.HasSuffix(data, []byte("PAR1")) {
		t.Errorf("Output is not a parquet file (%d bytes)", len(data))
	}

	if err := WriteParquet(&buf, failedResult()); err == nil {
		t.Error("Expected an error for a failed result")
	}
}

func TestColumnKinds(t *testing.T) {
	keys := []string{"n", "mixed", "empty"}
	records := []models.Record{
		models.NewRecord("S", 2, keys, []models.Value{models.Number(1), models.Text("a"), models.Null()}),
		models.NewRecord("S", 3, keys, []models.Value{models.Null(), models.Number(2), models.Null()}),
	}
	got := columnKinds(records, keys)
	want := []models.ValueKind{models.KindNumber, models.KindText, models.KindText}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %s kind = %v, want %v", keys[i], got[i], want[i])
		}
	}
}

func TestCreateSummary(t *testing.T) {
	res := sampleResult()
	for i := 0; i < 7; i++ {
		res.Metadata.Warnings = append(res.Metadata.Warnings, fmt.Sprintf("Row %d: warning", i+10))
	}

	summary := CreateSummary(res)
	for _, want := range []string{
		"✓ Successfully processed 1 records",
		"⚠ 1 invalid records",
		"⏱ Processing time: 12ms",
		"Warnings:",
		"  ... and 3 more warnings",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "Row 15: warning") {
		t.Errorf("Summary lists more than 5 warnings:\n%s", summary)
	}

	failure := CreateSummary(failedResult())
	if !strings.Contains(failure, "✗ Processing failed") || !strings.Contains(failure, "Available sheets: Sheet1, Sheet2") {
		t.Errorf("Unexpected failure summary:\n%s", failure)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleResult(), Format("xml"), false)
	if err == nil {
		t.Fatal("Expected an error")
	}
	var target *xerrors.Error
	if errors.As(err, &target) {
		t.Errorf("Format errors are not fatal import errors: %v", err)
	}
}
