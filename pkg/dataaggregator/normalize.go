package dataaggregator

import (
	"regexp"
	"strings"
	"time"

	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/navitia"
	"github.com/travigo/railinfo/pkg/dataaggregator/source/transportdatagouv"
	"github.com/travigo/railinfo/pkg/util"
	"golang.org/x/exp/slices"
)

var severityByEffect = map[string]ctdf.DisruptionSeverity{
	"NO_SERVICE":         ctdf.DisruptionSeverityHigh,
	"REDUCED_SERVICE":    ctdf.DisruptionSeverityMedium,
	"SIGNIFICANT_DELAYS": ctdf.DisruptionSeverityMedium,
	"DETOUR":             ctdf.DisruptionSeverityLow,
	"MODIFIED_SERVICE":   ctdf.DisruptionSeverityLow,
	"STOP_MOVED":         ctdf.DisruptionSeverityLow,
	"ADDITIONAL_SERVICE": ctdf.DisruptionSeverityInfo,
	"OTHER_EFFECT":       ctdf.DisruptionSeverityInfo,
	"UNKNOWN_EFFECT":     ctdf.DisruptionSeverityInfo,
}

func mapSeverity(effect string) ctdf.DisruptionSeverity {
	if severity, exists := severityByEffect[strings.ToUpper(effect)]; exists {
		return severity
	}

	return ctdf.DisruptionSeverityInfo
}

// Directions are given as "Marseille Saint-Charles (Marseille)"
var directionCityRegex = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

func cleanDestination(direction string, headsign string) string {
	destination := strings.TrimSpace(directionCityRegex.ReplaceAllString(direction, ""))
	if destination == "" {
		return strings.TrimSpace(headsign)
	}

	return destination
}

func normalizeColor(color string) string {
	if color == "" || strings.HasPrefix(color, "#") {
		return color
	}

	return "#" + color
}

func normalizeStation(stopArea navitia.StopArea, now time.Time) ctdf.Station {
	station := ctdf.NewStation(stopArea.ID, stopArea.Name)

	station.Coordinates = ctdf.Location{
		Latitude:  float64(stopArea.Coord.Lat),
		Longitude: float64(stopArea.Coord.Lon),
	}
	station.Codes = &ctdf.StationCodes{
		Native: stopArea.ID,
		UIC:    stopArea.Code("uic"),
		GTFS:   stopArea.Code("gtfs_stop_code"),
	}
	station.AddSource(ctdf.SourceTagPrimary)
	station.HasRealtime = true
	station.LastUpdated = now

	return *station
}

// bestRegionalDataset picks the highest quality active dataset that names both a region and a
// departement. The first one listed wins a tie.
func bestRegionalDataset(datasets []transportdatagouv.Dataset, now time.Time) *transportdatagouv.Dataset {
	var best *transportdatagouv.Dataset

	for i := range datasets {
		dataset := &datasets[i]

		if !transportdatagouv.IsDatasetActive(*dataset, now) {
			continue
		}
		if dataset.RegionName() == "" || dataset.DepartementName() == "" {
			continue
		}

		if best == nil || transportdatagouv.QualityScore(*dataset) > transportdatagouv.QualityScore(*best) {
			best = dataset
		}
	}

	return best
}

func enrichStations(stations []ctdf.Station, dataset *transportdatagouv.Dataset) {
	if dataset == nil {
		return
	}

	for i := range stations {
		stations[i].Region = dataset.RegionName()
		stations[i].Department = dataset.DepartementName()
		stations[i].AddSource(ctdf.SourceTagRegional)
	}
}

func hasEquipment(equipments []string, equipment string) bool {
	return slices.Contains(equipments, equipment)
}

func disruptionText(disruption navitia.Disruption) string {
	texts := []string{}
	for _, message := range disruption.Messages {
		if text := strings.TrimSpace(message.Text); text != "" {
			texts = append(texts, text)
		}
	}

	return strings.Join(texts, " ")
}

// normalizeDeparture maps a single board entry. Entries without a readable scheduled time are
// dropped.
func normalizeDeparture(departure navitia.Departure) (ctdf.Departure, bool) {
	stopTime := departure.StopDateTime

	scheduled, err := navitia.ParseDateTime(stopTime.BaseDepartureDateTime)
	if err != nil {
		scheduled, err = navitia.ParseDateTime(stopTime.DepartureDateTime)
		if err != nil {
			return ctdf.Departure{}, false
		}
	}

	actual, err := navitia.ParseDateTime(stopTime.DepartureDateTime)
	if err != nil {
		actual = scheduled
	}

	display := departure.DisplayInformations

	hints := []ctdf.DisruptionHint{}
	descriptions := []string{}
	for _, disruption := range departure.Disruptions {
		hints = append(hints, ctdf.DisruptionHint(strings.ToUpper(disruption.Severity.Effect)))

		description := disruptionText(disruption)
		if description == "" {
			description = disruption.Severity.Name
		}
		descriptions = append(descriptions, description)
	}

	delay := ctdf.ComputeDelayMinutes(scheduled, actual)

	lineID := departure.Route.ID
	if departure.Route.Line != nil && departure.Route.Line.ID != "" {
		lineID = departure.Route.Line.ID
	}

	equipments := append(slices.Clone(departure.StopPoint.Equipments), display.Equipments...)

	aggregated := ctdf.Departure{
		Line: ctdf.Line{
			ID:             lineID,
			Name:           display.Name,
			Code:           display.Code,
			Color:          normalizeColor(display.Color),
			PhysicalMode:   display.PhysicalMode,
			CommercialMode: display.CommercialMode,
			ServiceType:    ctdf.ClassifyServiceType(strings.TrimSpace(display.CommercialMode + " " + display.Name)),
		},
		Direction:     display.Direction,
		Destination:   cleanDestination(display.Direction, display.Headsign),
		Platform:      departure.StopPoint.PlatformCode,
		ScheduledTime: scheduled,
		ActualTime:    actual,
		Delay:         delay,
		Status:        ctdf.ComputeStatus(delay, hints),
		Source:        ctdf.SourceTagPrimary,
		Disruptions:   util.RemoveDuplicateStrings(descriptions, nil),
		Accessibility: ctdf.Accessibility{
			Wheelchair: hasEquipment(equipments, "has_wheelchair_boarding"),
			Audio:      hasEquipment(equipments, "has_audible_signs"),
			Visual:     hasEquipment(equipments, "has_visual_announcement"),
		},
	}

	if aggregated.Disruptions == nil {
		aggregated.Disruptions = []string{}
	}

	return aggregated, true
}

func normalizeDisruption(disruption navitia.Disruption, now time.Time) (ctdf.Disruption, bool) {
	if disruption.ID == "" {
		return ctdf.Disruption{}, false
	}

	periods := []ctdf.ApplicationPeriod{}
	for _, period := range disruption.ApplicationPeriods {
		begin, err := navitia.ParseDateTime(period.Begin)
		if err != nil {
			continue
		}
		end, err := navitia.ParseDateTime(period.End)
		if err != nil {
			continue
		}

		periods = append(periods, ctdf.ApplicationPeriod{Begin: begin, End: end})
	}

	aggregated := ctdf.Disruption{
		ID:               disruption.ID,
		Title:            disruptionTitle(disruption),
		Description:      disruptionText(disruption),
		Severity:         mapSeverity(disruption.Severity.Effect),
		Status:           ctdf.ComputeDisruptionStatus(periods, now),
		AffectedLines:    []string{},
		AffectedStations: []string{},
		Category:         disruption.Category,
		Cause:            disruption.Cause,
		Impact: ctdf.DisruptionImpact{
			Level:  disruption.Severity.Priority,
			Effect: disruption.Severity.Effect,
		},
		Source:      ctdf.SourceTagPrimary,
		LastUpdated: now,
	}

	for _, period := range periods {
		if aggregated.StartDate.IsZero() || period.Begin.Before(aggregated.StartDate) {
			aggregated.StartDate = period.Begin
		}
		if period.End.After(aggregated.EndDate) {
			aggregated.EndDate = period.End
		}
	}

	for _, impacted := range disruption.ImpactedObjects {
		name := impacted.PtObject.Name
		if name == "" {
			continue
		}

		switch impacted.PtObject.EmbeddedType {
		case "line":
			if !slices.Contains(aggregated.AffectedLines, name) {
				aggregated.AffectedLines = append(aggregated.AffectedLines, name)
			}
		case "stop_area":
			if !slices.Contains(aggregated.AffectedStations, name) {
				aggregated.AffectedStations = append(aggregated.AffectedStations, name)
			}
		}
	}

	if updatedAt, err := navitia.ParseDateTime(disruption.UpdatedAt); err == nil {
		aggregated.LastUpdated = updatedAt
	}

	return aggregated, true
}

func disruptionTitle(disruption navitia.Disruption) string {
	switch {
	case disruption.Cause != "":
		return disruption.Cause
	case disruption.Severity.Name != "":
		return disruption.Severity.Name
	default:
		return "Perturbation"
	}
}

func normalizeItinerary(journey navitia.Journey) (ctdf.Itinerary, bool) {
	departure, err := navitia.ParseDateTime(journey.DepartureDateTime)
	if err != nil {
		return ctdf.Itinerary{}, false
	}
	arrival, err := navitia.ParseDateTime(journey.ArrivalDateTime)
	if err != nil {
		return ctdf.Itinerary{}, false
	}

	itinerary := ctdf.Itinerary{
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Duration:      time.Duration(journey.Duration) * time.Second,
		Transfers:     journey.NbTransfers,
		Status:        journey.Status,
		Sections:      []ctdf.ItinerarySection{},
	}

	for _, section := range journey.Sections {
		itinerarySection := ctdf.ItinerarySection{
			Type: section.Type,
		}

		if section.From != nil {
			itinerarySection.From = section.From.Name
		}
		if section.To != nil {
			itinerarySection.To = section.To.Name
		}
		if display := section.DisplayInformations; display != nil {
			itinerarySection.Line = &ctdf.Line{
				Name:           display.Name,
				Code:           display.Code,
				Color:          normalizeColor(display.Color),
				PhysicalMode:   display.PhysicalMode,
				CommercialMode: display.CommercialMode,
				ServiceType:    ctdf.ClassifyServiceType(strings.TrimSpace(display.CommercialMode + " " + display.Name)),
			}
		}

		itinerarySection.DepartureTime, _ = navitia.ParseDateTime(section.DepartureDateTime)
		itinerarySection.ArrivalTime, _ = navitia.ParseDateTime(section.ArrivalDateTime)

		itinerary.Sections = append(itinerary.Sections, itinerarySection)
	}

	return itinerary, true
}
