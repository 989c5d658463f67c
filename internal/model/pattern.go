package model

import "time"

// PatternSample is one point of a price/volume series.
type PatternSample struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
}

// PatternType names a technical chart formation.
type PatternType string

const (
	PatternDoubleTop     PatternType = "double_top"
	PatternDoubleBottom  PatternType = "double_bottom"
	PatternHeadShoulders PatternType = "head_shoulders"
	PatternTriangle      PatternType = "triangle"
	PatternChannel       PatternType = "channel"
)

// PatternTypes lists the taxonomy in model output order.
var PatternTypes = []PatternType{
	PatternDoubleTop,
	PatternDoubleBottom,
	PatternHeadShoulders,
	PatternTriangle,
	PatternChannel,
}

// Direction is a predicted price bias.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Pattern is a detected formation. Start/EndIndex are offsets into the analyzed series.
type Pattern struct {
	Type               PatternType `json:"type"`
	Confidence         float64     `json:"confidence"`
	StartIndex         int         `json:"start_index"`
	EndIndex           int         `json:"end_index"`
	PredictedDirection Direction   `json:"predicted_direction"`
	SupportLevel       *float64    `json:"support_level,omitempty"`
	ResistanceLevel    *float64    `json:"resistance_level,omitempty"`
}

// AnalysisSource records which detection path produced an analysis.
type AnalysisSource string

const (
	SourceNone      AnalysisSource = "none"
	SourceModel     AnalysisSource = "model"
	SourceHeuristic AnalysisSource = "heuristic"
)

// PatternAnalysis is the result of one analysis call. It is never mutated after return.
type PatternAnalysis struct {
	ID        string         `json:"id"`
	Patterns  []Pattern      `json:"patterns"`
	Source    AnalysisSource `json:"source"`
	Trend     Direction      `json:"trend,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
