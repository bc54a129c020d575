package config

// CheckOffsets are the hours after publication at which every video is
// measured. The detection policy must define a multiplier for each of them.
var CheckOffsets = []int{2, 5, 24, 168, 720}

// Config represents the detection policy loaded from YAML
type Config struct {
	Detection DetectionSettings `yaml:"detection"`
	Source    SourceSettings    `yaml:"source"`
}

// DetectionSettings controls the trending decision rule
type DetectionSettings struct {
	Multipliers        map[int]float64 `yaml:"multipliers"`
	BaselineWindow     int             `yaml:"baseline_window"`
	RecencyWindowHours int             `yaml:"recency_window_hours"`
}

// SourceSettings controls calls to the upstream video service
type SourceSettings struct {
	Timeout    int `yaml:"timeout"` // seconds
	MaxEntries int `yaml:"max_entries"`
}
