package operations

// Step identifiers
const (
	StepIDDiscover     = "discover"
	StepIDClean        = "clean"
	StepIDLoadCleaned  = "load_cleaned"
	StepIDMerge        = "merge"
	StepIDLoadCombined = "load_combined"
	StepIDAnalyze      = "analyze"
	StepIDExport       = "export"
)

// Step names
const (
	StepNameDiscover     = "Source Discovery"
	StepNameClean        = "Cleaning"
	StepNameLoadCleaned  = "Load Cleaned Datasets"
	StepNameMerge        = "Merge"
	StepNameLoadCombined = "Load Combined Dataset"
	StepNameAnalyze      = "Aggregation and Reporting"
	StepNameExport       = "SQLite Export"
)

// Command identifies which pipeline a run executes
type Command string

const (
	CommandRun     Command = "run"
	CommandClean   Command = "clean"
	CommandMerge   Command = "merge"
	CommandAnalyze Command = "analyze"
)

// Artifact kinds recorded in the manifest
const (
	ArtifactCleaned  = "cleaned"
	ArtifactCombined = "combined"
	ArtifactReport   = "report"
	ArtifactChart    = "chart"
	ArtifactDatabase = "database"
	ArtifactMetrics  = "metrics"
)
