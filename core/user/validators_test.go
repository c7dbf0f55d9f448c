package user

import (
	"strings"
	"testing"

	"github.com/trezcool/hadir/core"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		pwd       string
		userAttrs []string
		wantErrs  []string // expected error substrings, one per field error
	}{
		{name: "ok", pwd: "NotSoSecret#123"},
		{name: "leading space", pwd: " NotSoSecret#123", wantErrs: []string{"space"}},
		{name: "too short", pwd: "Shor#1", wantErrs: []string{"at least 8"}},
		{name: "all numeric", pwd: "123456789", wantErrs: []string{"numeric"}},
		{name: "short and numeric", pwd: "1234", wantErrs: []string{"at least 8", "numeric"}},
		{
			name: "too similar to username", pwd: "budisantoso1",
			userAttrs: []string{"Budi Santoso", "budisantoso", "budi@test.test"},
			wantErrs:  []string{"too similar"},
		},
		{
			name: "too similar to email", pwd: "awe@test.test",
			userAttrs: []string{"Awe", "aweawe", "awe@test.test"},
			wantErrs:  []string{"too similar"},
		},
		{
			name: "unrelated to attributes", pwd: "NotSoSecret#123",
			userAttrs: []string{"Budi Santoso", "budisantoso", "budi@test.test"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.pwd, tt.userAttrs...)
			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatalf("ValidatePassword() error = %v", err)
				}
				return
			}

			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("ValidatePassword() error = %v, want a ValidationError", err)
			}
			if len(vErr.Fields) != len(tt.wantErrs) {
				t.Fatalf("ValidatePassword() fields = %v, want %d errors", vErr.Fields, len(tt.wantErrs))
			}
			for i, want := range tt.wantErrs {
				fld := vErr.Fields[i]
				if fld.Field != "password" {
					t.Errorf("field = %s, want password", fld.Field)
				}
				if !strings.Contains(fld.Error, want) {
					t.Errorf("error = %q, want it to contain %q", fld.Error, want)
				}
			}
		})
	}
}
