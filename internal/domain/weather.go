package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultCity is looked up when the weather page first loads.
const DefaultCity = "Langkawi"

// ForecastSlotsPerDay is the number of 3-hour forecast slots in a day.
const ForecastSlotsPerDay = 8

// ForecastSlot is one 3-hour forecast entry.
type ForecastSlot struct {
	Time        time.Time
	Temperature float64
}

// DailyTemperature is one point of the temperature chart.
type DailyTemperature struct {
	Time        time.Time `json:"time"`
	Label       string    `json:"label"`
	Temperature float64   `json:"temperature_c"`
}

// CityWeather is the current conditions for a city plus a daily forecast.
type CityWeather struct {
	City        string             `json:"city"`
	Country     string             `json:"country"`
	DateLabel   string             `json:"date"`
	Temperature float64            `json:"temperature_c"`
	Condition   string             `json:"condition"`
	Icon        string             `json:"icon"`
	IconURL     string             `json:"icon_url"`
	Humidity    int                `json:"humidity_pct"`
	WindSpeed   float64            `json:"wind_speed_ms"`
	Daily       []DailyTemperature `json:"daily"`
}

// WeatherProvider looks up current conditions and forecast for a city.
type WeatherProvider interface {
	CityWeather(ctx context.Context, city string) (CityWeather, error)
}

// NormalizeCity trims the lookup text and rejects an empty name.
func NormalizeCity(raw string) (string, error) {
	city := strings.TrimSpace(raw)
	if city == "" {
		return "", ErrMissingCity
	}
	return city, nil
}

// CityNotFound is returned when the current-weather lookup is rejected.
func CityNotFound(city string, err error) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("City or country %q not found.", city), err)
}

// SampleDaily keeps every 8th slot, roughly one per day, starting with the first.
func SampleDaily(slots []ForecastSlot) []DailyTemperature {
	out := make([]DailyTemperature, 0, len(slots)/ForecastSlotsPerDay+1)
	for i := 0; i < len(slots); i += ForecastSlotsPerDay {
		s := slots[i]
		out = append(out, DailyTemperature{
			Time:        s.Time,
			Label:       s.Time.Format("Mon"),
			Temperature: s.Temperature,
		})
	}
	return out
}

// LongDateLabel renders a date like "Monday, 2 January 2006".
func LongDateLabel(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

// WeatherIconURL is the image URL for an icon code.
func WeatherIconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return "https://openweathermap.org/img/wn/" + icon + "@2x.png"
}
