package point

import (
	"testing"

	"ecocoleta/internal/pkg/category"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a-b", Sanitize(" a|b "))
	assert.Equal(t, "line one two", Sanitize("line one\ntwo"))
	assert.Equal(t, "x y", Sanitize("x\r\ny"))
	assert.Equal(t, "", Sanitize("  \n "))
}

func TestNewSanitizesEveryField(t *testing.T) {
	p := New(7, " Point|A\n", "Main St\r\n10", category.New("Paper", "gl|ass", "a\nb"), " c@d ")
	require.Equal(t, 7, p.ID)
	assert.Equal(t, "Point-A", p.Name)
	assert.Equal(t, "Main St 10", p.Address)
	assert.Equal(t, []string{"paper", "gl-ass", "a b"}, p.Categories.Labels())
	assert.Equal(t, "c@d", p.Contact)
}

func TestAccepts(t *testing.T) {
	p := New(1, "A", "B", category.Parse("glass,metal"), "c")
	assert.True(t, p.Accepts("GLASS"))
	assert.False(t, p.Accepts("paper"))
}

func TestDisplay(t *testing.T) {
	p := New(2, "B", "Addr2", category.Parse("glass,metal"), "z@w")
	assert.Equal(t, "ID: 2\nName: B\nAddress: Addr2\nCategories: glass, metal\nContact: z@w\n", p.Display())
}
