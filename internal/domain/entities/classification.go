package entities

// ClassificationSource records which stage of the classifier produced a result
type ClassificationSource string

const (
	ClassificationSourceEmergency ClassificationSource = "emergency"
	ClassificationSourceLexicon   ClassificationSource = "lexicon"
	ClassificationSourceDefault   ClassificationSource = "default"
	ClassificationSourceRefined   ClassificationSource = "refined"
)

// ClassificationResult is the specialty recommended for a symptom description
type ClassificationResult struct {
	RecommendedSpecialty string               `json:"recommended_specialty"`
	Explanation          string               `json:"doctor_explanation"`
	TemporaryAdvice      []string             `json:"temporary_advice"`
	IsEmergency          bool                 `json:"is_emergency"`
	Source               ClassificationSource `json:"source"`
}
