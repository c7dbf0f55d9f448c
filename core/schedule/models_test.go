package schedule

import "testing"

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		hhmm    string
		want    int
		wantErr bool
	}{
		{hhmm: "00:00", want: 0},
		{hhmm: "08:00", want: 480},
		{hhmm: "13:45", want: 825},
		{hhmm: "23:59", want: 1439},
		{hhmm: "24:00", wantErr: true},
		{hhmm: "12:60", wantErr: true},
		{hhmm: "noon", wantErr: true},
		{hhmm: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.hhmm, func(t *testing.T) {
			got, err := ParseMinutes(tt.hhmm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMinutes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{mins: 0, want: "00:00"},
		{mins: 470, want: "07:50"},
		{mins: 495, want: "08:15"},
		{mins: 1439, want: "23:59"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatMinutes(tt.mins); got != tt.want {
				t.Errorf("FormatMinutes(%d) = %s, want %s", tt.mins, got, tt.want)
			}
		})
	}
}
