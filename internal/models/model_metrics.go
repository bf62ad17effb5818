package models

import (
	"time"
)

// ModelMetrics records the evaluation of one training run.
type ModelMetrics struct {
	BaseModel
	ModelVersion      string    `gorm:"size:50;not null;index" json:"model_version"`
	ModelType         string    `gorm:"size:50" json:"model_type"`
	TrainingSamples   int       `json:"training_samples"`
	TrainingDate      time.Time `json:"training_date"`
	Accuracy          float64   `json:"accuracy"`
	Precision         float64   `json:"precision"`
	Recall            float64   `json:"recall"`
	F1Score           float64   `gorm:"column:f1_score" json:"f1_score"`
	FeatureImportance string    `gorm:"type:text" json:"feature_importance"` // JSON object, feature name -> coefficient
}
