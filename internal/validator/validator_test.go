package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_FirstErrorWins(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())

	v.Check(true, "title", "unused")
	assert.True(t, v.Valid())

	v.Check(false, "title", MsgRequired)
	v.Check(false, "title", "second message is ignored")
	v.AddError("genre", "free text only")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": MsgRequired, "genre": "free text only"}, v.Errors)
}

func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace", "  ", true},
		{"text", "Harper Lee", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Required("author", tt.value)
			assert.Equal(t, tt.valid, v.Valid())
		})
	}
}

func TestValidator_RequiredInt(t *testing.T) {
	v := New()
	v.RequiredInt("year", 1960)
	assert.True(t, v.Valid())

	v.RequiredInt("year", 0)
	assert.Equal(t, MsgRequired, v.Errors["year"])
}
