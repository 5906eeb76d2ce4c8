package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmail(t *testing.T) {
	e, err := NewEmail("  User@Example.com ")
	assert.NoError(t, err)
	// Trimmed, never lowercased: emails join case-sensitively.
	assert.Equal(t, "User@Example.com", e.String())

	_, err = NewEmail("not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewEmail("")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestNewCanonicalID(t *testing.T) {
	id, err := NewCanonicalID(" 64A0C2F7E13B9A0012345601 ")
	assert.NoError(t, err)
	assert.Equal(t, "64a0c2f7e13b9a0012345601", id.String())

	_, err = NewCanonicalID("short")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = NewCanonicalID("zz" + "64a0c2f7e13b9a00123456") // non-hex
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 50.0, Ratio(1, 2).Float64(), 0.001)
	assert.Equal(t, Percentage(0), Ratio(5, 0))
	// Different denominators can legitimately exceed 100.
	assert.InDelta(t, 200.0, Ratio(4, 2).Float64(), 0.001)
}

func TestPagination_Defaults(t *testing.T) {
	assert.Equal(t, 1, NewPagination(0).Page)
	assert.Equal(t, 1, NewPagination(-3).Page)
	assert.Equal(t, 7, NewPagination(7).Page)

	assert.Equal(t, 1, ParsePage("").Page)
	assert.Equal(t, 1, ParsePage("abc").Page)
	assert.Equal(t, 3, ParsePage(" 3 ").Page)
}

func TestPagination_SkipAndTotalPages(t *testing.T) {
	p := NewPagination(3)
	assert.Equal(t, 20, p.Skip())
	assert.Equal(t, PageSize, p.Limit())

	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
	assert.Equal(t, 3, p.TotalPages(25))
}

func TestPagination_SliceWindow(t *testing.T) {
	p := NewPagination(2)

	from, to := p.Slice(25)
	assert.Equal(t, 10, from)
	assert.Equal(t, 20, to)

	// Partial last page.
	from, to = NewPagination(3).Slice(25)
	assert.Equal(t, 20, from)
	assert.Equal(t, 25, to)

	// A page past the end is an empty window, not an error.
	from, to = NewPagination(9).Slice(25)
	assert.Equal(t, from, to)
}
