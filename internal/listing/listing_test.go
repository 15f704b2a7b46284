package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppliesSentinels(t *testing.T) {
	l := New(Listing{Title: "Toyota Camry"})

	assert.Equal(t, SentinelYear, l.Year)
	assert.Equal(t, SentinelMileage, l.Mileage)
	assert.Equal(t, SentinelEngine, l.Engine)
	assert.Equal(t, SentinelTransmission, l.Transmission)
	assert.Equal(t, SentinelColor, l.Color)
	assert.Equal(t, SentinelDrive, l.Drive)
	assert.Equal(t, "Toyota Camry", l.Title)
}

func TestNewKeepsExtractedValues(t *testing.T) {
	l := New(Listing{
		Year:         "2021",
		Mileage:      "120 000 км",
		Engine:       "2.0 л / 150 л.с.",
		Transmission: "автомат",
		Color:        "белый",
		Drive:        "передний",
	})

	assert.Equal(t, "2021", l.Year)
	assert.Equal(t, "120 000 км", l.Mileage)
	assert.Equal(t, "2.0 л / 150 л.с.", l.Engine)
	assert.Equal(t, "автомат", l.Transmission)
	assert.Equal(t, "белый", l.Color)
	assert.Equal(t, "передний", l.Drive)
}

func TestMileageCoercion(t *testing.T) {
	cases := []struct {
		name    string
		mileage string
		want    string
	}{
		{"below threshold", "450 км", SentinelMileage},
		{"zero", "0", SentinelMileage},
		{"at threshold", "500 км", "500 км"},
		{"high mileage", "120000 км", "120000 км"},
		{"nbsp separator", "120 000 км", "120 000 км"},
		{"nbsp below threshold", " 499", SentinelMileage},
		{"non numeric kept verbatim", "не указан", "не указан"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := New(Listing{Mileage: tc.mileage})
			assert.Equal(t, tc.want, l.Mileage)
		})
	}
}

func TestImageCap(t *testing.T) {
	l := New(Listing{Images: []string{"a", "b", "c", "d", "e"}})
	assert.Equal(t, []string{"a", "b", "c"}, l.Images)

	l = New(Listing{Images: []string{"a"}})
	assert.Equal(t, []string{"a"}, l.Images)

	l = New(Listing{})
	assert.Empty(t, l.Images)
}

func TestStringNormalizesNBSP(t *testing.T) {
	l := New(Listing{
		Title: "Honda Civic",
		Price: "1 500 000",
	})

	out := l.String()
	assert.Contains(t, out, "Цена: 1 500 000 P")
	assert.NotContains(t, out, " ")
	assert.True(t, strings.Contains(out, "Название: Honda Civic"))
}
