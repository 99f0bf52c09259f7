package textures

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyFormat(t *testing.T) {
	testCases := map[string]struct {
		Width    int
		Expected Format
	}{
		"tiny texture":         {Width: 32, Expected: FormatSD},
		"canonical texture":    {Width: 64, Expected: FormatSD},
		"smallest hd":          {Width: 65, Expected: FormatHD},
		"128px texture":        {Width: 128, Expected: FormatHD},
		"512px texture":        {Width: 512, Expected: FormatHD},
		"overlapping range":    {Width: 640, Expected: FormatHD},
		"upper overlap":        {Width: 800, Expected: FormatHD},
		"last hd":              {Width: 1023, Expected: FormatHD},
		"1024px texture":       {Width: 1024, Expected: FormatFullHD},
		"2048px texture":       {Width: 2048, Expected: FormatFullHD},
		"zero width is not hd": {Width: 0, Expected: FormatSD},
	}

	for name, c := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, c.Expected, ClassifyFormat(c.Width))
		})
	}
}

// Widths in (512; 1024) match both the HD and the FullHD conditions. HD is checked first and wins
func TestClassifyFormat_OverlapKeepsHD(t *testing.T) {
	for width := 513; width < 1024; width++ {
		require.Equal(t, FormatHD, ClassifyFormat(width), "width %d", width)
	}
}

func TestFormat_MarshalText(t *testing.T) {
	result, err := json.Marshal(map[string]Format{
		"unknown": FormatUnknown,
		"sd":      FormatSD,
		"hd":      FormatHD,
		"fullhd":  FormatFullHD,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"unknown":"unknown","sd":"sd","hd":"hd","fullhd":"fullhd"}`, string(result))
	require.Equal(t, "unknown", Format(42).String())
}
