package entities

// SymptomSearchRequest is the body of POST /api/recommend
type SymptomSearchRequest struct {
	Symptoms string `json:"symptoms"`
	Location string `json:"location"`
}

// SearchResponse is returned to the browser for a symptom search.
// DataAvailable is false when the directory could not be loaded, which the
// front-end renders differently from an empty Providers list.
type SearchResponse struct {
	ResolvedLocation     string           `json:"resolved_location"`
	RecommendedSpecialty string           `json:"recommended_specialty"`
	DoctorExplanation    string           `json:"doctor_explanation"`
	TemporaryAdvice      []string         `json:"temporary_advice"`
	IsEmergency          bool             `json:"is_emergency"`
	DataAvailable        bool             `json:"data_available"`
	Providers            []RankedProvider `json:"providers"`
}

// ProviderQuery filters the directory by location and specialty text
type ProviderQuery struct {
	Location  string
	Specialty string
}

// ProviderListResponse is returned by GET /api/providers
type ProviderListResponse struct {
	ResolvedLocation string           `json:"resolved_location"`
	Specialty        string           `json:"specialty"`
	DataAvailable    bool             `json:"data_available"`
	Providers        []RankedProvider `json:"providers"`
	Count            int              `json:"count"`
}

// ReportFile is one uploaded report, base64 encoded
type ReportFile struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// ReportAnalysisRequest is the body of POST /api/analyze
type ReportAnalysisRequest struct {
	Files    []ReportFile `json:"files"`
	Location string       `json:"location,omitempty"`
}

// ReportAnalysisResponse carries the interpretation of uploaded reports
type ReportAnalysisResponse struct {
	Interpretation       string           `json:"interpretation"`
	RecommendedSpecialty string           `json:"recommended_specialty"`
	RecommendationReason string           `json:"recommendation_reason,omitempty"`
	TemporaryAdvice      []string         `json:"temporary_advice"`
	ResolvedLocation     string           `json:"resolved_location,omitempty"`
	DataAvailable        bool             `json:"data_available"`
	Providers            []RankedProvider `json:"providers"`
}
