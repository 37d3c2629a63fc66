package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "1234.50", money(1234.5))
	assert.Equal(t, "0.00", money(0))
	assert.Equal(t, "100.00", money(99.999))
}

func TestSplitCategories(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "explodes composite values",
			raw:  []string{"Electronics|Audio|Headphones"},
			want: []string{"Audio", "Electronics", "Headphones"},
		},
		{
			name: "dedupes across rows and sorts",
			raw:  []string{"Computers|Laptops", "Electronics|Audio", "Computers"},
			want: []string{"Audio", "Computers", "Electronics", "Laptops"},
		},
		{
			name: "drops empty segments",
			raw:  []string{"Audio||", " ", ""},
			want: []string{"Audio"},
		},
		{
			name: "empty input",
			raw:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCategories(tt.raw))
		})
	}
}
