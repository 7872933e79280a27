package models

// Severity is the fixed severity level associated with a disease class.
// It is a property of the class itself, not of a particular prediction.
type Severity string

const (
	SeverityNone   Severity = "None"
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// NanoTreatment is a single nanoparticle treatment recommendation.
// Entries are ordered by display priority within a disease record.
type NanoTreatment struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Concentration string `json:"concentration"`
	Effectiveness string `json:"effectiveness"`
	Application   string `json:"application"`
}

// DiseaseRecord is one entry of the static knowledge base.
type DiseaseRecord struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Severity    Severity        `json:"severity"`
	Treatments  []NanoTreatment `json:"nanoparticle_treatments"`
}

// PredictionResult is the response body of a classification call.
// Severity, description and nanoparticles are copied from the matched
// disease record so the two lookup paths can never drift.
type PredictionResult struct {
	Disease        string             `json:"disease"`
	Confidence     float64            `json:"confidence"`
	Severity       Severity           `json:"severity"`
	Description    string             `json:"description"`
	Nanoparticles  []NanoTreatment    `json:"nanoparticles"`
	AllPredictions map[string]float64 `json:"all_predictions,omitempty"`
}
