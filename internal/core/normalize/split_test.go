package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRespectingQuotes(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim rune
		want  []string
	}{
		{
			name:  "quoted delimiter",
			line:  `Porta,,601,"R$ 19.004,00","59,72%"`,
			delim: ',',
			want:  []string{"Porta", "", "601", "R$ 19.004,00", "59,72%"},
		},
		{
			name:  "trailing empty fields",
			line:  "Cortesias,,378,,",
			delim: ',',
			want:  []string{"Cortesias", "", "378", "", ""},
		},
		{
			name:  "unbalanced quotes split naively",
			line:  `a,"b,c`,
			delim: ',',
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "semicolon",
			line:  ` 1 ; "x;y" ;z`,
			delim: ';',
			want:  []string{"1", "x;y", "z"},
		},
		{
			name:  "empty line",
			line:  "",
			delim: ',',
			want:  []string{""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRespectingQuotes(tt.line, tt.delim))
		})
	}
}

func TestField(t *testing.T) {
	fields := []string{"a", "b"}
	assert.Equal(t, "b", Field(fields, 1))
	assert.Equal(t, "", Field(fields, 2))
	assert.Equal(t, "", Field(fields, -1))
}
