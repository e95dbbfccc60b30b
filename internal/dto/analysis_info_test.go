package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAnalysisInfo_MarshalJSON(t *testing.T) {
	at := time.Date(2024, 3, 7, 9, 5, 1, 0, time.UTC)
	info := AnalysisInfo{
		Session:  "s1",
		Filename: "captured_image_1.png",
		Labels: AttributeLabels{
			Age:     "Estimate Age: 29",
			Gender:  "Gender: Man",
			Race:    "Race: asian",
			Emotion: "Emotion: happy",
		},
		Success:   true,
		Date:      at,
		TimeOfDay: at,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"date":"07-03-2024"`,
		`"timeOfDay":"09:05:01"`,
		`"filename":"captured_image_1.png"`,
		`"age":"Estimate Age: 29"`,
		`"success":true`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, `"error"`) {
		t.Errorf("empty error should be omitted: %s", s)
	}
}

func TestViewMessage_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(ViewMessage{Type: ViewClock, Text: "2024-03-07 09:05:01"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `{"type":"clock","text":"2024-03-07 09:05:01"}`
	if string(data) != expected {
		t.Errorf("got %s, expected %s", data, expected)
	}
}
