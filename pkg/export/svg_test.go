package export_test

import (
	"bytes"
	"testing"

	"github.com/dshills/locale/pkg/export"
)

func TestExportSVG_ProducesWellFormedDocument(t *testing.T) {
	bp := testBlueprint(t)
	data, err := export.ExportSVG(bp, export.DefaultSVGOptions())
	if err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("expected an <svg> root element")
	}
	if !bytes.Contains(data, []byte("</svg>")) {
		t.Error("expected a closing </svg> tag")
	}
	if !bytes.Contains(data, []byte("Entry")) {
		t.Error("expected sublocation names to appear as labels")
	}
}

func TestExportSVG_RejectsNilBlueprint(t *testing.T) {
	if _, err := export.ExportSVG(nil, export.DefaultSVGOptions()); err == nil {
		t.Fatal("expected an error for a nil blueprint")
	}
}

func TestDefaultSVGOptions_AreUsableAsIs(t *testing.T) {
	opts := export.DefaultSVGOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		t.Error("DefaultSVGOptions must produce a positive canvas size")
	}
}
