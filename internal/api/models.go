package api

// DetectionRequest is the payload accepted by POST /api/detect.
type DetectionRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// WordHighlight is one token the model weighed, with the class it pushed
// the prediction toward.
type WordHighlight struct {
	Word       string  `json:"word"`
	Importance float64 `json:"importance"`
	Direction  string  `json:"direction"` // "fake" or "real"
}

// DetectionResult mirrors the backend response field-for-field. Nothing is
// normalized or recomputed on this side; the renderer shows what the service
// said.
type DetectionResult struct {
	Success          bool            `json:"success"`
	Prediction       string          `json:"prediction"` // "Fake" or "Real"
	Confidence       float64         `json:"confidence"`
	FakeProbability  float64         `json:"fake_probability"`
	RealProbability  float64         `json:"real_probability"`
	Explanation      string          `json:"explanation"`
	WordHighlights   []WordHighlight `json:"word_highlights"`
	ProcessingTimeMS float64         `json:"processing_time_ms"`
	Timestamp        string          `json:"timestamp"`
	RequestID        string          `json:"request_id"`
}

// IsFake reports whether the model classified the article as fake.
func (r *DetectionResult) IsFake() bool {
	return r.Prediction == "Fake"
}

// HealthStatus is the payload of GET /api/health.
type HealthStatus struct {
	Status        string `json:"status"`
	AppName       string `json:"app_name"`
	Version       string `json:"version"`
	IsModelLoaded bool   `json:"is_model_loaded"`
	Timestamp     string `json:"timestamp"`
}

// errorBody is the structured error payload the backend attaches to non-2xx
// responses. Only Error is required; the rest is best effort.
type errorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}
