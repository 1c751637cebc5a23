package port

import "errors"

// ErrModelUnavailable is returned when the classifier artifact exists but
// could not be loaded.
var ErrModelUnavailable = errors.New("model could not be loaded")

// Classifier is a binary fraud classifier over a scaled feature vector.
type Classifier interface {
	// Predict returns the class index: 0 safe, 1 fraud.
	Predict(features []float64) (int, error)

	// PredictProba returns [p(safe), p(fraud)].
	PredictProba(features []float64) ([2]float64, error)
}

// Scaler transforms a raw feature vector into the classifier's input space.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}
