package ctdf

// SourceTag records which upstream contributed to an aggregated record
type SourceTag string

const (
	SourceTagPrimary  SourceTag = "primary"
	SourceTagRegional SourceTag = "regional"
)
