package core

import (
	"errors"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"data.csv", true},
		{"data.CSV", true},
		{"table.tsv", true},
		{"book.xlsx", true},
		{"old.XLS", true},
		{"records.json", true},
		{"frame.parquet", true},
		{"archive.tar.csv", true},
		{"report.pdf", false},
		{"notes.txt", false},
		{"data.csv.bak", false},
		{"csv", false},
		{"", false},
		{"data.", false},
	}

	for _, tt := range tests {
		err := ValidateFilename(tt.name)
		if tt.valid && err != nil {
			t.Errorf("ValidateFilename(%q) = %v, want nil", tt.name, err)
		}
		if !tt.valid {
			if err == nil {
				t.Errorf("ValidateFilename(%q) = nil, want error", tt.name)
				continue
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ValidateFilename(%q) error should match ErrValidation", tt.name)
			}
			if err.Error() != UnsupportedFileMessage {
				t.Errorf("ValidateFilename(%q) message = %q", tt.name, err.Error())
			}
		}
	}
}

func TestAcceptAttribute(t *testing.T) {
	want := ".csv,.tsv,.xlsx,.xls,.json,.parquet"
	if got := AcceptAttribute(); got != want {
		t.Errorf("AcceptAttribute() = %q, want %q", got, want)
	}
}
