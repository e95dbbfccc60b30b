package service

import (
	"image"
	"strconv"

	"facescope/internal/dto"
	"facescope/internal/model"
)

// Placeholder is shown in every result label when no analysis is available.
const Placeholder = "-"

// Surface receives display updates. Implementations must not block for long.
type Surface interface {
	ShowFrame(frame image.Image)
	ShowClock(text string)
	ShowAttributes(labels dto.AttributeLabels)
}

// Surfaces fans updates out to several surfaces in order.
type Surfaces []Surface

func (s Surfaces) ShowFrame(frame image.Image) {
	for _, surface := range s {
		surface.ShowFrame(frame)
	}
}

func (s Surfaces) ShowClock(text string) {
	for _, surface := range s {
		surface.ShowClock(text)
	}
}

func (s Surfaces) ShowAttributes(labels dto.AttributeLabels) {
	for _, surface := range s {
		surface.ShowAttributes(labels)
	}
}

// FormatAttributes renders an analysis into the four label texts.
// A nil result yields the placeholder in all four.
func FormatAttributes(result *model.Analysis) dto.AttributeLabels {
	if result == nil {
		return dto.AttributeLabels{
			Age:     Placeholder,
			Gender:  Placeholder,
			Race:    Placeholder,
			Emotion: Placeholder,
		}
	}
	return dto.AttributeLabels{
		Age:     "Estimate Age: " + strconv.FormatFloat(result.Age, 'f', -1, 64),
		Gender:  "Gender: " + result.DominantGender,
		Race:    "Race: " + result.DominantRace,
		Emotion: "Emotion: " + result.DominantEmotion,
	}
}

// Presenter pushes analysis results into the result labels.
type Presenter struct {
	surface Surface
}

func NewPresenter(surface Surface) *Presenter {
	return &Presenter{surface: surface}
}

// Present overwrites all four labels with the result, or with the placeholder when result is nil.
func (p *Presenter) Present(result *model.Analysis) {
	p.surface.ShowAttributes(FormatAttributes(result))
}
