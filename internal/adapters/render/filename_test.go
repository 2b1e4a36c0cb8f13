package render

import (
	"testing"

	"idcard/internal/domain/profile"
)

func TestExportFilename(t *testing.T) {
	tests := []struct {
		name string
		p    profile.Record
		ext  string
		want string
	}{
		{
			name: "plain fields join with hyphens",
			p:    profile.Record{Name: "John", Parish: "Khasa", Phone: "9876543210"},
			ext:  "png",
			want: "John-Khasa-9876543210.png",
		},
		{
			name: "spaces and unsafe characters become underscores",
			p:    profile.Record{Name: "John Paul / D'souza", Parish: "St. Mary's", Phone: "9876543210"},
			ext:  "pdf",
			want: "John_Paul_D_souza-St._Mary_s-9876543210.pdf",
		},
		{
			name: "empty parts are skipped",
			p:    profile.Record{Name: "John"},
			ext:  "png",
			want: "John.png",
		},
		{
			name: "all empty falls back",
			p:    profile.Record{},
			ext:  "pdf",
			want: "card.pdf",
		},
		{
			name: "header injection characters stripped",
			p:    profile.Record{Name: "a\"b\r\nc", Parish: "p", Phone: "1"},
			ext:  "png",
			want: "a_b_c-p-1.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportFilename(tt.p, tt.ext); got != tt.want {
				t.Errorf("ExportFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}
