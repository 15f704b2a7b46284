package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "avkuzmin/caroffer/pkg/errors"
)

func TestForURL(t *testing.T) {
	p, err := ForURL("https://auto.ru/cars/used/sale/toyota/camry/1115364938-abcdef01/")
	require.NoError(t, err)
	assert.Equal(t, autoRuSite, p.Site())

	p, err = ForURL("https://spb.drom.ru/toyota/camry/12345678.html")
	require.NoError(t, err)
	assert.Equal(t, dromSite, p.Site())

	_, err = ForURL("https://example.com/some/listing")
	assert.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeExtraction))
}

func TestCheckChallenge(t *testing.T) {
	assert.NoError(t, CheckChallenge("auto.ru", []byte("<html><body>обычная страница</body></html>")))

	err := CheckChallenge("auto.ru", []byte("<html><body>Please solve the CAPTCHA to continue</body></html>"))
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.ErrorTypeChallenge))

	err = CheckChallenge("drom.ru", []byte("<html><body>Подтвердите, что вы не робот</body></html>"))
	assert.Error(t, err)
}
