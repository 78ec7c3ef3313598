package models

// UserProfile carries the styling attributes the client knows about the
// user. Every field is optional; the prompt builder substitutes
// placeholders for anything absent.
type UserProfile struct {
	Gender            string `json:"gender,omitempty"`
	Height            string `json:"height,omitempty"`
	SkinTone          string `json:"skinTone,omitempty"`
	BodyType          string `json:"bodyType,omitempty"`
	StylePreference   string `json:"stylePreference,omitempty"`
	ActivityLevel     string `json:"activityLevel,omitempty"`
	Occasion          string `json:"occasion,omitempty"`
	ColorPreference   string `json:"colorPreference,omitempty"`
	FabricSensitivity string `json:"fabricSensitivity,omitempty"`
}

// WeatherSnapshot is the client-supplied weather context at request time.
type WeatherSnapshot struct {
	City        string   `json:"city,omitempty"`
	Country     string   `json:"country,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`
	Season      string   `json:"season,omitempty"`
}
