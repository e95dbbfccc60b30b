package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"facescope/internal/dto"
	"facescope/internal/model"
)

func TestFormatAttributes(t *testing.T) {
	tests := []struct {
		name   string
		result *model.Analysis
		want   dto.AttributeLabels
	}{
		{
			name:   "absent",
			result: nil,
			want:   dto.AttributeLabels{Age: "-", Gender: "-", Race: "-", Emotion: "-"},
		},
		{
			name: "whole age",
			result: &model.Analysis{
				Age: 29, DominantGender: "Man", DominantRace: "asian", DominantEmotion: "happy",
			},
			want: dto.AttributeLabels{
				Age:     "Estimate Age: 29",
				Gender:  "Gender: Man",
				Race:    "Race: asian",
				Emotion: "Emotion: happy",
			},
		},
		{
			name:   "fractional age",
			result: &model.Analysis{Age: 31.5, DominantGender: "Woman", DominantRace: "white", DominantEmotion: "neutral"},
			want: dto.AttributeLabels{
				Age:     "Estimate Age: 31.5",
				Gender:  "Gender: Woman",
				Race:    "Race: white",
				Emotion: "Emotion: neutral",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAttributes(tt.result))
		})
	}
}

func TestPresenter_OverwritesAllLabels(t *testing.T) {
	a, b := &recordingSurface{}, &recordingSurface{}
	p := NewPresenter(Surfaces{a, b})

	p.Present(&model.Analysis{Age: 40, DominantGender: "Man", DominantRace: "black", DominantEmotion: "sad"})
	p.Present(nil)

	for _, s := range []*recordingSurface{a, b} {
		got, ok := s.lastLabels()
		assert.True(t, ok)
		assert.Equal(t, FormatAttributes(nil), got)
		assert.Equal(t, 2, s.labelCount())
	}
}
