package controllers

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
)

func option(id uint) courseModels.MCQOption {
	opt := courseModels.MCQOption{IsCorrect: true}
	opt.ID = id
	return opt
}

func TestEvaluateMCQ(t *testing.T) {
	correct := []courseModels.MCQOption{option(1), option(2)}

	tests := []struct {
		name      string
		selected  []uint
		score     int
		isCorrect bool
	}{
		{"exact match", []uint{1, 2}, 2, true},
		{"partial selection", []uint{1}, 1, false},
		{"over-selection dilutes", []uint{1, 2, 3}, 2, false},
		{"all wrong", []uint{4, 5}, 0, false},
		{"empty selection", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, isCorrect := evaluateMCQ(tt.selected, correct)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.isCorrect, isCorrect)
		})
	}
}

func TestEvaluateMCQNoCorrectOptions(t *testing.T) {
	// an MCQ with no correct options can never be answered correctly with
	// a non-empty selection
	score, isCorrect := evaluateMCQ([]uint{1}, nil)
	assert.Zero(t, score)
	assert.False(t, isCorrect)
}
