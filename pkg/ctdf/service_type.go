package ctdf

import "strings"

type ServiceType string

const (
	ServiceTypeTGV        ServiceType = "TGV"
	ServiceTypeEurostar   ServiceType = "EUROSTAR"
	ServiceTypeThalys     ServiceType = "THALYS"
	ServiceTypeIntercites ServiceType = "INTERCITES"
	ServiceTypeTransilien ServiceType = "TRANSILIEN"
	ServiceTypeTER        ServiceType = "TER"
)

// Checked in order, first match wins
var serviceTypeKeywords = []struct {
	ServiceType ServiceType
	Keywords    []string
}{
	{ServiceTypeTGV, []string{"tgv", "inoui", "ouigo"}},
	{ServiceTypeEurostar, []string{"eurostar"}},
	{ServiceTypeThalys, []string{"thalys"}},
	{ServiceTypeIntercites, []string{"intercités", "intercites"}},
	{ServiceTypeTransilien, []string{"transilien"}},
}

// ClassifyServiceType guesses the commercial service from a line or mode display name
func ClassifyServiceType(name string) ServiceType {
	lowered := strings.ToLower(name)

	for _, candidate := range serviceTypeKeywords {
		for _, keyword := range candidate.Keywords {
			if strings.Contains(lowered, keyword) {
				return candidate.ServiceType
			}
		}
	}

	return ServiceTypeTER
}
