package navitia

import (
	"encoding/json"
	"strconv"
	"strings"
)

type StopArea struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Coord Coord  `json:"coord"`

	AdministrativeRegions []AdministrativeRegion `json:"administrative_regions,omitempty"`
	Codes                 []Code                 `json:"codes,omitempty"`
}

// Code returns the first value of the given code type, eg. "uic" or "source"
func (s *StopArea) Code(codeType string) string {
	for _, code := range s.Codes {
		if strings.EqualFold(code.Type, codeType) {
			return code.Value
		}
	}

	return ""
}

type Coord struct {
	Lat Coordinate `json:"lat"`
	Lon Coordinate `json:"lon"`
}

// Coordinate accepts both the quoted and the bare number forms the API uses
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*c = 0
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// A bad coordinate must not fail the whole batch
		*c = 0
		return nil
	}

	*c = Coordinate(value)
	return nil
}

type AdministrativeRegion struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Insee   string `json:"insee"`
	ZipCode string `json:"zip_code"`
	Level   int    `json:"level"`
}

type Code struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type Place struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	EmbeddedType string    `json:"embedded_type"`
	StopArea     *StopArea `json:"stop_area,omitempty"`
}

type placesResponse struct {
	Places []json.RawMessage `json:"places"`
}

type Departure struct {
	Route               Route               `json:"route"`
	DisplayInformations DisplayInformations `json:"display_informations"`
	StopDateTime        StopDateTime        `json:"stop_date_time"`
	StopPoint           StopPoint           `json:"stop_point"`

	Disruptions []Disruption `json:"disruptions,omitempty"`
}

type Route struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Line *LineRef `json:"line,omitempty"`
}

type LineRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
}

type DisplayInformations struct {
	Name           string   `json:"name"`
	Code           string   `json:"code"`
	Color          string   `json:"color"`
	TextColor      string   `json:"text_color"`
	PhysicalMode   string   `json:"physical_mode"`
	CommercialMode string   `json:"commercial_mode"`
	Network        string   `json:"network"`
	Direction      string   `json:"direction"`
	Headsign       string   `json:"headsign"`
	Label          string   `json:"label"`
	TripShortName  string   `json:"trip_short_name"`
	Equipments     []string `json:"equipments"`
	Links          []Link   `json:"links"`
}

type Link struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Rel  string `json:"rel"`
}

type StopDateTime struct {
	BaseDepartureDateTime string `json:"base_departure_date_time"`
	DepartureDateTime     string `json:"departure_date_time"`
	DataFreshness         string `json:"data_freshness"`
}

type StopPoint struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PlatformCode string   `json:"platform_code"`
	Equipments   []string `json:"equipments"`
}

type departuresResponse struct {
	Departures  []json.RawMessage `json:"departures"`
	Disruptions []json.RawMessage `json:"disruptions"`
}

type Disruption struct {
	ID           string `json:"id"`
	DisruptionID string `json:"disruption_id"`
	Status       string `json:"status"`

	Messages []Message `json:"messages"`
	Severity Severity  `json:"severity"`

	ApplicationPeriods []Period         `json:"application_periods"`
	ImpactedObjects    []ImpactedObject `json:"impacted_objects"`

	Category  string `json:"category"`
	Cause     string `json:"cause"`
	UpdatedAt string `json:"updated_at"`
}

type Message struct {
	Text string `json:"text"`
}

type Severity struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Effect   string `json:"effect"`
	Color    string `json:"color"`
}

type Period struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

type ImpactedObject struct {
	PtObject PtObject `json:"pt_object"`
}

type PtObject struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmbeddedType string `json:"embedded_type"`
}

type disruptionsResponse struct {
	Disruptions []json.RawMessage `json:"disruptions"`
}

type Journey struct {
	DepartureDateTime string    `json:"departure_date_time"`
	ArrivalDateTime   string    `json:"arrival_date_time"`
	Duration          int       `json:"duration"`
	NbTransfers       int       `json:"nb_transfers"`
	Status            string    `json:"status"`
	Sections          []Section `json:"sections"`
}

type Section struct {
	Type                string               `json:"type"`
	From                *Place               `json:"from,omitempty"`
	To                  *Place               `json:"to,omitempty"`
	DisplayInformations *DisplayInformations `json:"display_informations,omitempty"`
	DepartureDateTime   string               `json:"departure_date_time"`
	ArrivalDateTime     string               `json:"arrival_date_time"`
	Duration            int                  `json:"duration"`
}

type journeysResponse struct {
	Journeys []json.RawMessage `json:"journeys"`
}
