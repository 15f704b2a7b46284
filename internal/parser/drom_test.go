package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avkuzmin/caroffer/internal/listing"
)

const dromURL = "https://spb.drom.ru/toyota/camry/12345678.html"

const dromPage = `<html><head>
<meta property="og:title" content="Продажа Toyota Camry 2021, 1&nbsp;500&nbsp;000 руб.">
</head><body>
<h1>Toyota Camry 2021 в Санкт-Петербурге</h1>
<table>
  <tr><th>Двигатель</th><td>бензин, 2.5 л</td></tr>
  <tr><th>Мощность</th><td>181 л.с.,&nbsp;налог</td></tr>
  <tr><th>Пробег</th><td>120000 км</td></tr>
  <tr><th>Цвет</th><td>белый</td></tr>
  <tr><th>Коробка передач</th><td>автомат</td></tr>
  <tr><th>Привод</th><td>передний</td></tr>
  <tr><th>Руль</th><td>левый</td></tr>
</table>
<div data-ftid="bull-page_bull-gallery_thumbnails">
  <a href="//s.auto.drom.ru/photo/1.jpg"></a>
  <a href="https://s.auto.drom.ru/photo/2.jpg"></a>
  <a href="//s.auto.drom.ru/photo/3.jpg"></a>
  <a href="//s.auto.drom.ru/photo/4.jpg"></a>
</div>
</body></html>`

func TestDromPage(t *testing.T) {
	l, err := NewDrom().Parse(dromURL, []byte(dromPage))
	require.NoError(t, err)

	assert.Equal(t, "Toyota Camry", l.Title)
	assert.Equal(t, "2021", l.Year)
	assert.Equal(t, "1 500 000", l.Price)
	assert.Equal(t, "бензин, 2.5 л, 181 л.с.", l.Engine)
	assert.Equal(t, "120000 км", l.Mileage)
	assert.Equal(t, "белый", l.Color)
	assert.Equal(t, "автомат", l.Transmission)
	assert.Equal(t, "передний", l.Drive)
	assert.Equal(t, []string{
		"https://s.auto.drom.ru/photo/1.jpg",
		"https://s.auto.drom.ru/photo/2.jpg",
		"https://s.auto.drom.ru/photo/3.jpg",
	}, l.Images)
	assert.Equal(t, dromURL, l.SourceURL)
}

func TestDromMissingMetaFallsBackToHeader(t *testing.T) {
	page := `<html><body><h1>Toyota Camry 2021 в Санкт-Петербурге</h1></body></html>`

	l, err := NewDrom().Parse(dromURL, []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Toyota Camry 2021 в Санкт-Петербурге", l.Title)
	assert.Equal(t, listing.SentinelYear, l.Year)
	assert.Empty(t, l.Price)
}

func TestDromMissingTableYieldsSentinels(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Продажа Lada Vesta 2024, 1&nbsp;200&nbsp;000 руб.">
</head><body></body></html>`

	l, err := NewDrom().Parse(dromURL, []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "Lada Vesta", l.Title)
	assert.Equal(t, "2024", l.Year)
	assert.Equal(t, "1 200 000", l.Price)
	assert.Equal(t, listing.SentinelEngine, l.Engine)
	assert.Equal(t, listing.SentinelMileage, l.Mileage)
	assert.Equal(t, listing.SentinelColor, l.Color)
	assert.Equal(t, listing.SentinelTransmission, l.Transmission)
	assert.Equal(t, listing.SentinelDrive, l.Drive)
	assert.Empty(t, l.Images)
}

func TestDromPowerWithoutEngine(t *testing.T) {
	page := `<html><body>
<table><tr><th>Мощность</th><td>150 л.с.</td></tr></table>
</body></html>`

	l, err := NewDrom().Parse(dromURL, []byte(page))
	require.NoError(t, err)
	assert.Equal(t, "150 л.с.", l.Engine)
}

func TestDromChallengePageIsFatal(t *testing.T) {
	page := `<html><body>Доступ ограничен: подозрительная активность</body></html>`

	_, err := NewDrom().Parse(dromURL, []byte(page))
	assert.Error(t, err)
}
