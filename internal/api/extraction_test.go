package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReportText(t *testing.T) {
	input := "# Heading\n\nThe roof is [new](http://x).\n\n```\ncode block\n```\n\n1. Kitchen **renovated**\n- Bathroom dated!\n"

	got := extractReportText(input)
	assert.Equal(t, "The roof is new.\nKitchen renovated.\nBathroom dated!", got)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"- item", "item"},
		{"2) second", "second"},
		{"> quoted `code`", "quoted code"},
		{"**bold**  and   __under__", "bold and under"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanText(tt.in), tt.in)
	}
}
