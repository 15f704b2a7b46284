package price

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperr "avkuzmin/caroffer/pkg/errors"
)

func TestApplyVAT(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"grouped input", "100 000", "120 000"},
		{"nbsp grouped input", "1 000 000", "1 200 000"},
		{"plain number", "500000", "600 000"},
		{"small amount stays ungrouped", "100", "120"},
		{"rounding", "999", "1 199"},
		{"currency noise stripped", "2 500 000 ₽", "3 000 000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ApplyVAT(tc.in)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyVATInvalid(t *testing.T) {
	for _, in := range []string{"", "not a price", "цена по запросу"} {
		_, err := ApplyVAT(in)
		assert.Error(t, err)
		assert.True(t, apperr.IsType(err, apperr.ErrorTypePrice))
	}
}
