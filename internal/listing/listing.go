package listing

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxImages caps how many gallery photos a listing keeps
const MaxImages = 3

// newVehicleMileage is the mileage below which a listing is treated as a new vehicle
const newVehicleMileage = 500

// Sentinel defaults substituted for fields the page did not provide.
// They signal "likely a new/unspecified vehicle", not a parse failure.
const (
	SentinelYear         = "Новый год"
	SentinelMileage      = "Новый автомобиль"
	SentinelEngine       = "Новый двигатель"
	SentinelTransmission = "Новая трансмиссия"
	SentinelColor        = "Новый цвет"
	SentinelDrive        = "Новый привод"
)

// Listing is the canonical record extracted from a classifieds page
type Listing struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Price        string   `json:"price,omitempty"`
	Year         string   `json:"year"`
	Mileage      string   `json:"mileage"`
	Engine       string   `json:"engine"`
	Transmission string   `json:"transmission"`
	Color        string   `json:"color"`
	Drive        string   `json:"drive"`
	Images       []string `json:"images,omitempty"`
	SourceURL    string   `json:"source_url"`
}

// New normalizes a raw extraction result into a canonical Listing:
// empty optional fields become their sentinels, the image list is capped
// at MaxImages, and a near-zero mileage is coerced to the new-vehicle
// sentinel.
func New(l Listing) *Listing {
	if l.Year == "" {
		l.Year = SentinelYear
	}
	if l.Mileage == "" {
		l.Mileage = SentinelMileage
	}
	if l.Engine == "" {
		l.Engine = SentinelEngine
	}
	if l.Transmission == "" {
		l.Transmission = SentinelTransmission
	}
	if l.Color == "" {
		l.Color = SentinelColor
	}
	if l.Drive == "" {
		l.Drive = SentinelDrive
	}

	l.Mileage = normalizeMileage(l.Mileage)

	if len(l.Images) > MaxImages {
		l.Images = l.Images[:MaxImages]
	}

	return &l
}

// normalizeMileage coerces mileage below newVehicleMileage to the
// new-vehicle sentinel. Values that do not reduce to a number are kept
// verbatim, sentinels included.
func normalizeMileage(mileage string) string {
	digits := strings.NewReplacer(" ", "", " ", "", "км", "").Replace(mileage)
	value, err := strconv.Atoi(digits)
	if err != nil {
		return mileage
	}
	if value < newVehicleMileage {
		return SentinelMileage
	}
	return mileage
}

// clean normalizes a field for display
func clean(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
	if s == "" {
		return "Не указано"
	}
	return s
}

// String returns a human-readable summary of the listing
func (l *Listing) String() string {
	price := "Не указана"
	if l.Price != "" {
		price = clean(l.Price) + " P"
	}

	var b strings.Builder
	b.WriteString("🚗 Информация об автомобиле 🚗\n")
	fmt.Fprintf(&b, "Название: %s\n", clean(l.Title))
	fmt.Fprintf(&b, "Цена: %s\n", price)
	fmt.Fprintf(&b, "Год: %s\n", clean(l.Year))
	fmt.Fprintf(&b, "Пробег: %s\n", clean(l.Mileage))
	fmt.Fprintf(&b, "Двигатель: %s\n", clean(l.Engine))
	fmt.Fprintf(&b, "Трансмиссия: %s\n", clean(l.Transmission))
	fmt.Fprintf(&b, "Цвет: %s\n", clean(l.Color))
	fmt.Fprintf(&b, "Привод: %s\n", clean(l.Drive))
	fmt.Fprintf(&b, "URL: %s\n", clean(l.SourceURL))
	return b.String()
}
