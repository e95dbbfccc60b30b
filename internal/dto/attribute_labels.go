package dto

// AttributeLabels holds the four result label texts shown next to the video.
type AttributeLabels struct {
	Age     string `json:"age"`
	Gender  string `json:"gender"`
	Race    string `json:"race"`
	Emotion string `json:"emotion"`
}
