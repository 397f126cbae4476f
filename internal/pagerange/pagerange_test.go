package pagerange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    List
		wantErr error
	}{
		{
			name: "mixed pages and ranges",
			spec: "1-3,5,7-9",
			want: List{{0, 2}, {4, 4}, {6, 8}},
		},
		{
			name: "single page",
			spec: "1",
			want: List{{0, 0}},
		},
		{
			name: "order is preserved",
			spec: "9,1-2,5",
			want: List{{8, 8}, {0, 1}, {4, 4}},
		},
		{
			name: "repeats and overlaps are kept",
			spec: "1-3,2-4,1-3",
			want: List{{0, 2}, {1, 3}, {0, 2}},
		},
		{
			name: "single page range",
			spec: "4-4",
			want: List{{3, 3}},
		},
		{
			name: "whitespace around tokens",
			spec: " 1 - 3 , 5 ",
			want: List{{0, 2}, {4, 4}},
		},
		{
			name:    "start greater than end",
			spec:    "3-1",
			wantErr: ErrInvalidRange,
		},
		{
			name:    "not a number",
			spec:    "abc",
			wantErr: ErrParse,
		},
		{
			name:    "extra hyphens",
			spec:    "1-2-3",
			wantErr: ErrParse,
		},
		{
			name:    "empty token",
			spec:    "1,,3",
			wantErr: ErrParse,
		},
		{
			name:    "trailing comma",
			spec:    "1,2,",
			wantErr: ErrParse,
		},
		{
			name:    "empty spec",
			spec:    "",
			wantErr: ErrParse,
		},
		{
			name:    "negative page",
			spec:    "-1",
			wantErr: ErrParse,
		},
		{
			name:    "page zero",
			spec:    "0",
			wantErr: ErrParse,
		},
		{
			name:    "open ended range",
			spec:    "3-",
			wantErr: ErrParse,
		},
		{
			name:    "invalid end page",
			spec:    "1-xyz",
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_InvalidRangeIsNotParseError(t *testing.T) {
	_, err := Parse("3-1")
	require.Error(t, err)

	var rangeErr *InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 3, rangeErr.Start)
	assert.Equal(t, 1, rangeErr.End)
	assert.False(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "start page 3 greater than end page 1")
}

func TestParse_ErrorNamesToken(t *testing.T) {
	_, err := Parse("1,x,3")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "x", parseErr.Token)
	assert.Contains(t, err.Error(), `"1,x,3"`)
}

func TestParseFor(t *testing.T) {
	t.Run("all ranges fit", func(t *testing.T) {
		got, skipped, err := ParseFor("1-3,5,7-9", 100)
		require.NoError(t, err)
		assert.Equal(t, List{{0, 2}, {4, 4}, {6, 8}}, got)
		assert.Empty(t, skipped)
	})

	t.Run("syntax errors stay fatal", func(t *testing.T) {
		_, _, err := ParseFor("3-1", 10)
		assert.ErrorIs(t, err, ErrInvalidRange)

		_, _, err = ParseFor("abc", 10)
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("every range out of bounds", func(t *testing.T) {
		got, skipped, err := ParseFor("5-6", 2)
		require.NoError(t, err)
		assert.Empty(t, got)
		require.Len(t, skipped, 1)
		assert.Equal(t, PageRange{4, 5}, skipped[0].Range)
		assert.Equal(t, 2, skipped[0].PageCount)
	})
}

func TestResolve(t *testing.T) {
	list := List{{0, 1}, {4, 4}, {1, 9}, {2, 2}}

	valid, skipped := list.Resolve(5)

	assert.Equal(t, List{{0, 1}, {4, 4}, {2, 2}}, valid)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], ErrOutOfBounds)
	assert.Equal(t, "page range 2-10 is out of range for a document with 5 page(s)", skipped[0].Error())
}

func TestResolve_EmptyDocument(t *testing.T) {
	valid, skipped := List{{0, 0}}.Resolve(0)
	assert.Empty(t, valid)
	assert.Len(t, skipped, 1)
}

func TestList_Pages(t *testing.T) {
	list := List{{2, 3}, {0, 0}, {2, 2}}

	assert.Equal(t, []int{2, 3, 0, 2}, list.Pages())
	assert.Equal(t, []string{"3", "4", "1", "3"}, list.PageSelection())
	assert.Equal(t, 4, list.Len())
}

func TestList_String(t *testing.T) {
	assert.Equal(t, "1-3,5,7-9", List{{0, 2}, {4, 4}, {6, 8}}.String())
	assert.Equal(t, "", List{}.String())
	assert.Equal(t, "4", PageRange{3, 3}.String())
}
