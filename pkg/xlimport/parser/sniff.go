package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/models"
	"github.com/ukaji3/xlimport-go/pkg/xlimport/xerrors"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect classifies raw file contents. It returns the container format, or
// an *xerrors.Error without a path for encrypted, legacy, unknown and
// damaged files.
func Detect(data []byte) (models.SourceFormat, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return detectZip(data)
	case bytes.HasPrefix(data, oleMagic):
		return "", detectOLE(data)
	default:
		return "", xerrors.New(xerrors.InvalidFileFormat, "", errors.New("not a spreadsheet workbook"))
	}
}

func detectZip(data []byte) (models.SourceFormat, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", xerrors.New(xerrors.FileCorrupted, "", err)
	}
	for _, f := range zr.File {
		switch strings.ToLower(f.Name) {
		case "xl/workbook.xml":
			return models.FormatXLSX, nil
		case "xl/workbook.bin":
			return models.FormatXLSB, nil
		}
	}
	return "", xerrors.New(xerrors.InvalidFileFormat, "", errors.New("zip archive without a workbook part"))
}

// detectOLE inspects a compound file. Password-protected OOXML workbooks
// are wrapped in one; so are legacy BIFF workbooks.
func detectOLE(data []byte) error {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return xerrors.New(xerrors.FileCorrupted, "", err)
	}
	for {
		entry, err := doc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return xerrors.New(xerrors.FileCorrupted, "", err)
		}
		switch entry.Name {
		case "EncryptionInfo", "EncryptedPackage":
			return xerrors.New(xerrors.FileAccessDenied, "", errors.New("workbook is password protected"))
		case "Workbook", "Book":
			return xerrors.New(xerrors.InvalidFileFormat, "", errors.New("legacy binary .xls workbooks are not supported"))
		}
	}
	return xerrors.New(xerrors.InvalidFileFormat, "", errors.New("compound file without a workbook stream"))
}
